package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Subscriber receives fanout events for the workspaces it has joined. The
// hub never blocks on a slow subscriber: when its buffer is full the event
// is dropped for that subscriber and the client is expected to re-bootstrap
// from the store on reconnect.
type Subscriber interface {
	// ClientID identifies the originating client so its own events are not
	// echoed back.
	ClientID() string
	// Deliver hands the subscriber one event; it must not block.
	Deliver(e Event) bool
}

// Hub fans events out to every subscriber joined to the event's workspace,
// excluding the sender. It is the server half of the fanout channel.
type Hub struct {
	mu sync.RWMutex
	// workspaceID -> clientID -> subscriber
	rooms map[string]map[string]Subscriber

	bridge Bridge
	logger zerolog.Logger
}

// Bridge mirrors events across server instances. Optional; nil means
// single-instance deployment.
type Bridge interface {
	Publish(ctx context.Context, e Event, senderID string) error
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]Subscriber),
		logger: logger.With().Str("component", "realtime_hub").Logger(),
	}
}

// SetBridge attaches a cross-instance bridge. Call before serving traffic.
func (h *Hub) SetBridge(b Bridge) {
	h.bridge = b
}

// Join subscribes the client to a workspace's events. Joining twice is a
// no-op; navigation re-joins rather than accumulating subscriptions.
func (h *Hub) Join(workspaceID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[workspaceID]
	if !ok {
		room = make(map[string]Subscriber)
		h.rooms[workspaceID] = room
	}
	room[sub.ClientID()] = sub
}

// Leave unsubscribes the client from a workspace.
func (h *Hub) Leave(workspaceID, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[workspaceID]; ok {
		delete(room, clientID)
		if len(room) == 0 {
			delete(h.rooms, workspaceID)
		}
	}
}

// LeaveAll removes the client from every room. Called on disconnect.
func (h *Hub) LeaveAll(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for workspaceID, room := range h.rooms {
		delete(room, clientID)
		if len(room) == 0 {
			delete(h.rooms, workspaceID)
		}
	}
}

// Broadcast validates the event and delivers it to every subscriber in the
// event's workspace room except the sender, then mirrors it through the
// bridge for other instances.
func (h *Hub) Broadcast(ctx context.Context, e Event, senderID string) error {
	if err := e.Validate(); err != nil {
		return err
	}
	h.fanOutLocal(e, senderID)

	if h.bridge != nil {
		if err := h.bridge.Publish(ctx, e, senderID); err != nil {
			// Local fanout already happened; cross-instance mirroring is
			// best-effort and the projection tolerates the gap on reconnect.
			h.logger.Error().Err(err).Str("kind", string(e.Kind)).Msg("bridge publish failed")
		}
	}
	return nil
}

// HandleRemote applies an event that arrived via the bridge from another
// instance. The sender exclusion still applies in case the originating
// client reconnected here.
func (h *Hub) HandleRemote(e Event, senderID string) {
	if err := e.Validate(); err != nil {
		h.logger.Warn().Err(err).Msg("dropping invalid remote event")
		return
	}
	h.fanOutLocal(e, senderID)
}

func (h *Hub) fanOutLocal(e Event, senderID string) {
	h.mu.RLock()
	room := h.rooms[e.WorkspaceID]
	subs := make([]Subscriber, 0, len(room))
	for clientID, sub := range room {
		if clientID == senderID {
			continue
		}
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if !sub.Deliver(e) {
			h.logger.Warn().
				Str("client_id", sub.ClientID()).
				Str("kind", string(e.Kind)).
				Msg("subscriber buffer full, event dropped")
		}
	}
}

// RoomSize reports how many clients are joined to a workspace.
func (h *Hub) RoomSize(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[workspaceID])
}
