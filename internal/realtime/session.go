package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"app/internal/debounce"
	"app/internal/treestate"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// titleSaveWindow is the quiet window for coalesced title-edit emits, one
// event per burst of keystrokes.
const titleSaveWindow = 500 * time.Millisecond

// Session is the client half of the fanout channel: it dials the hub,
// keeps a bounded-retry reconnect loop, and feeds received events into its
// tree store. One Session per connected client.
type Session struct {
	clientID string
	store    *treestate.Store
	logger   zerolog.Logger

	// NavigateAway is invoked with the workspace id when a delete event
	// removes the resource the session is currently viewing. The UI layer
	// redirects to the workspace root.
	NavigateAway func(workspaceID string)

	maxAttempts int
	backoff     time.Duration
	saves       *debounce.Debouncer

	mu        sync.Mutex
	dialURL   string
	conn      *websocket.Conn
	connected bool
	closed    bool
	joined    map[string]struct{}
}

// NewSession creates a disconnected session bound to a tree store.
func NewSession(clientID string, store *treestate.Store, maxAttempts int, backoff time.Duration, logger zerolog.Logger) *Session {
	return &Session{
		clientID:    clientID,
		store:       store,
		logger:      logger.With().Str("component", "realtime_session").Str("client_id", clientID).Logger(),
		maxAttempts: maxAttempts,
		backoff:     backoff,
		saves:       debounce.New(titleSaveWindow),
		joined:      make(map[string]struct{}),
	}
}

// Connect dials ws(s)://host{path}?client_id=... and starts the receive
// loop. Retries up to maxAttempts with linear backoff; gives up with a
// transport error after that. A connection that drops later is redialed
// with the same budget. While disconnected, the store keeps serving its
// last state, stale but functional.
func (s *Session) Connect(ctx context.Context, baseURL, path, token string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid realtime url %q: %w", baseURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = path
	q := u.Query()
	q.Set("client_id", s.clientID)
	q.Set("token", token)
	u.RawQuery = q.Encode()

	s.mu.Lock()
	s.dialURL = u.String()
	s.mu.Unlock()

	if err := s.dial(ctx); err != nil {
		return err
	}
	go s.receiveLoop()
	return nil
}

// dial runs the bounded-backoff connect loop against the stored URL and
// re-establishes room memberships on success. Shared between the initial
// connect and post-drop reconnects.
func (s *Session) dial(ctx context.Context) error {
	s.mu.Lock()
	target := s.dialURL
	s.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
		if err == nil {
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				conn.Close()
				return fmt.Errorf("realtime channel closed")
			}
			s.conn = conn
			s.connected = true
			s.mu.Unlock()
			s.rejoinAll()
			s.logger.Info().Int("attempt", attempt).Msg("realtime channel connected")
			return nil
		}
		lastErr = err
		s.logger.Warn().Err(err).Int("attempt", attempt).Msg("realtime connect failed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("realtime channel unavailable after %d attempts: %w", s.maxAttempts, lastErr)
}

// IsConnected reports the channel state. The UI surfaces staleness when
// this is false instead of presenting the tree as current.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Join subscribes the session to a workspace's events. Scope follows the
// route: navigating between workspaces tears down and re-establishes the
// membership rather than accumulating it.
func (s *Session) Join(workspaceID string) error {
	s.mu.Lock()
	for ws := range s.joined {
		if ws != workspaceID {
			delete(s.joined, ws)
			s.writeLocked(clientMessage{Op: "leave", WorkspaceID: ws})
		}
	}
	s.joined[workspaceID] = struct{}{}
	err := s.writeLocked(clientMessage{Op: "join", WorkspaceID: workspaceID})
	s.mu.Unlock()
	return err
}

// Emit sends one event upstream for fanout to the other clients. The local
// store is expected to have been updated optimistically already.
func (s *Session) Emit(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return fmt.Errorf("realtime channel disconnected")
	}
	return s.writeLocked(clientMessage{Op: "emit", Event: &e})
}

// EmitDebounced coalesces rapid emits that share a key into one send after
// a quiet window, keeping per-keystroke title edits off the wire. Only the
// last event within the window is sent; a send failure after the window is
// logged, not returned, because the caller has long since moved on.
func (s *Session) EmitDebounced(key string, e Event) {
	s.saves.Trigger(key, func() {
		if err := s.Emit(e); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("debounced emit failed")
		}
	})
}

// Close tears the connection down and discards any pending debounced
// emits. Safe to call when disconnected.
func (s *Session) Close() error {
	s.saves.CancelAll()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if !s.connected {
		return nil
	}
	s.connected = false
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}

func (s *Session) rejoinAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ws := range s.joined {
		s.writeLocked(clientMessage{Op: "join", WorkspaceID: ws})
	}
}

// writeLocked requires s.mu held.
func (s *Session) writeLocked(msg clientMessage) error {
	if s.conn == nil {
		return fmt.Errorf("realtime channel disconnected")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// receiveLoop reads events off the wire and, when an established
// connection drops, redials with the same bounded backoff before resuming.
// It exits for good only on Close or once the retry budget is spent.
func (s *Session) receiveLoop() {
	for {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()

		_, data, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			wasConnected := s.connected
			s.connected = false
			closed := s.closed
			s.mu.Unlock()
			if closed || !wasConnected {
				return
			}
			s.logger.Warn().Err(err).Msg("realtime channel dropped, reconnecting")
			if err := s.dial(context.Background()); err != nil {
				s.logger.Error().Err(err).Msg("realtime channel lost")
				return
			}
			continue
		}
		e, err := DecodeEvent(data)
		if err != nil {
			s.logger.Warn().Err(err).Msg("dropping invalid inbound event")
			continue
		}
		s.apply(e)
	}
}

// apply reconciles one inbound event into the tree store. Duplicates and
// stale targets fall through as no-ops inside treestate.Apply.
func (s *Session) apply(e Event) {
	switch e.Kind {
	case EventInsertFile:
		s.store.Dispatch(treestate.Action{
			Kind:        treestate.AddFile,
			WorkspaceID: e.WorkspaceID,
			FolderID:    e.FolderID,
			File:        e.File,
		})
	case EventUpdateFile:
		s.store.Dispatch(treestate.Action{
			Kind:        treestate.UpdateFile,
			WorkspaceID: e.WorkspaceID,
			FolderID:    e.FolderID,
			FileID:      e.FileID,
			FilePatch:   e.Patch,
		})
	case EventDeleteFile:
		// Boot the user off a file that no longer exists before removing
		// it from the tree.
		if s.store.IsViewingFile(e.FileID) && s.NavigateAway != nil {
			s.NavigateAway(e.WorkspaceID)
		}
		s.store.Dispatch(treestate.Action{
			Kind:        treestate.DeleteFile,
			WorkspaceID: e.WorkspaceID,
			FolderID:    e.FolderID,
			FileID:      e.FileID,
		})
	}
}
