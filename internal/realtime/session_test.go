package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"app/internal/model"
	"app/internal/treestate"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func startTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := r.URL.Query().Get("client_id")
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewConn(clientID, "user-1", hub, ws, zerolog.Nop()).Run(r.Context())
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func seededStore() *treestate.Store {
	store := treestate.NewStore()
	store.Dispatch(treestate.Action{
		Kind: treestate.SetWorkspaces,
		Workspaces: []treestate.WorkspaceNode{
			{
				Workspace: model.Workspace{ID: "ws-1", OwnerID: "user-1", Title: "Shared"},
				Folders: []treestate.FolderNode{
					{Folder: model.Folder{ID: "folder-1", WorkspaceID: "ws-1", Title: "Docs"}},
				},
			},
		},
	})
	return store
}

func connectSession(t *testing.T, srv *httptest.Server, clientID string, store *treestate.Store) *Session {
	t.Helper()
	s := NewSession(clientID, store, 3, 10*time.Millisecond, zerolog.Nop())
	if err := s.Connect(context.Background(), srv.URL, "/", ""); err != nil {
		t.Fatalf("connect %s: %v", clientID, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func TestSessionsSyncThroughHub(t *testing.T) {
	hub, srv := startTestHub(t)

	storeA := seededStore()
	storeB := seededStore()
	a := connectSession(t, srv, "client-a", storeA)
	b := connectSession(t, srv, "client-b", storeB)

	if err := a.Join("ws-1"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := b.Join("ws-1"); err != nil {
		t.Fatalf("join b: %v", err)
	}
	waitFor(t, "both clients in the room", func() bool { return hub.RoomSize("ws-1") == 2 })

	f := model.File{ID: "file-1", WorkspaceID: "ws-1", FolderID: "folder-1", Title: "From A", IconID: "📄"}
	if err := a.Emit(Event{Kind: EventInsertFile, WorkspaceID: "ws-1", FolderID: "folder-1", FileID: f.ID, File: &f}); err != nil {
		t.Fatalf("emit: %v", err)
	}

	waitFor(t, "insert reaching client B", func() bool {
		s := storeB.State()
		wi, fi := s.FindFolder("ws-1", "folder-1")
		return wi >= 0 && fi >= 0 && len(s.Workspaces[wi].Folders[fi].Files) == 1
	})

	// The emitter already holds the file optimistically; the hub must not
	// echo the event back and double-apply it.
	time.Sleep(50 * time.Millisecond)
	s := storeA.State()
	wi, fi := s.FindFolder("ws-1", "folder-1")
	if len(s.Workspaces[wi].Folders[fi].Files) != 0 {
		t.Fatal("event echoed back to the emitting session")
	}
}

func TestDeleteEventNavigatesViewerAway(t *testing.T) {
	hub, srv := startTestHub(t)

	storeA := seededStore()
	storeB := seededStore()
	f := model.File{ID: "file-1", WorkspaceID: "ws-1", FolderID: "folder-1", Title: "Open", IconID: "📄"}
	storeB.Dispatch(treestate.Action{Kind: treestate.AddFile, WorkspaceID: "ws-1", FolderID: "folder-1", File: &f})
	storeB.SetView("ws-1", "folder-1", "file-1")

	a := connectSession(t, srv, "client-a", storeA)
	b := connectSession(t, srv, "client-b", storeB)

	navigated := make(chan string, 1)
	b.NavigateAway = func(workspaceID string) { navigated <- workspaceID }

	if err := a.Join("ws-1"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := b.Join("ws-1"); err != nil {
		t.Fatalf("join b: %v", err)
	}

	waitFor(t, "both clients in the room", func() bool { return hub.RoomSize("ws-1") == 2 })

	if err := a.Emit(Event{Kind: EventDeleteFile, WorkspaceID: "ws-1", FolderID: "folder-1", FileID: "file-1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}

	select {
	case workspaceID := <-navigated:
		if workspaceID != "ws-1" {
			t.Fatalf("navigated to the wrong workspace: %s", workspaceID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("viewer was not navigated away from the deleted file")
	}

	waitFor(t, "delete applied to viewer's store", func() bool {
		s := storeB.State()
		wi, fi := s.FindFolder("ws-1", "folder-1")
		return len(s.Workspaces[wi].Folders[fi].Files) == 0
	})
}

type countingSubscriber struct {
	id string

	mu     sync.Mutex
	events []Event
}

func (c *countingSubscriber) ClientID() string { return c.id }

func (c *countingSubscriber) Deliver(e Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return true
}

func (c *countingSubscriber) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestEmitDebouncedCoalescesBurst(t *testing.T) {
	hub, srv := startTestHub(t)
	a := connectSession(t, srv, "client-a", seededStore())
	viewer := &countingSubscriber{id: "viewer"}
	hub.Join("ws-1", viewer)

	if err := a.Join("ws-1"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	waitFor(t, "both clients in the room", func() bool { return hub.RoomSize("ws-1") == 2 })

	for i := 1; i <= 5; i++ {
		title := fmt.Sprintf("draft %d", i)
		a.EmitDebounced("file-1", Event{
			Kind:        EventUpdateFile,
			WorkspaceID: "ws-1",
			FolderID:    "folder-1",
			FileID:      "file-1",
			Patch:       &model.FilePatch{Title: &title},
		})
	}

	waitFor(t, "coalesced update reaching the viewer", func() bool { return len(viewer.snapshot()) == 1 })

	// Let another full window elapse to catch stragglers that should have
	// been discarded by the coalescing.
	time.Sleep(titleSaveWindow + 100*time.Millisecond)
	events := viewer.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 coalesced event, got %d", len(events))
	}
	if events[0].Patch == nil || events[0].Patch.Title == nil || *events[0].Patch.Title != "draft 5" {
		t.Fatalf("coalescing did not keep the last edit: %+v", events[0].Patch)
	}
}

func TestSessionReconnectsAfterDrop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	// The first accepted connection is severed server-side on demand; later
	// dials get a real hub connection.
	dropFirst := make(chan struct{})
	var mu sync.Mutex
	dials := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		dials++
		first := dials == 1
		mu.Unlock()
		if first {
			<-dropFirst
			ws.Close()
			return
		}
		NewConn(r.URL.Query().Get("client_id"), "user-1", hub, ws, zerolog.Nop()).Run(r.Context())
	}))
	t.Cleanup(srv.Close)

	a := connectSession(t, srv, "client-a", seededStore())
	if err := a.Join("ws-1"); err != nil {
		t.Fatalf("join: %v", err)
	}

	close(dropFirst)

	// The session must redial on its own and re-establish its room
	// membership, not wait for another Connect call.
	waitFor(t, "session to redial and rejoin", func() bool {
		return a.IsConnected() && hub.RoomSize("ws-1") == 1
	})

	viewer := &countingSubscriber{id: "viewer"}
	hub.Join("ws-1", viewer)
	f := model.File{ID: "file-9", WorkspaceID: "ws-1", FolderID: "folder-1", Title: "after reconnect", IconID: "📄"}
	if err := a.Emit(Event{Kind: EventInsertFile, WorkspaceID: "ws-1", FolderID: "folder-1", FileID: f.ID, File: &f}); err != nil {
		t.Fatalf("emit after reconnect: %v", err)
	}
	waitFor(t, "event flowing over the new connection", func() bool { return len(viewer.snapshot()) == 1 })
}

func TestConnectGivesUpAfterBoundedRetries(t *testing.T) {
	store := treestate.NewStore()
	s := NewSession("client-a", store, 2, time.Millisecond, zerolog.Nop())

	start := time.Now()
	err := s.Connect(context.Background(), "http://127.0.0.1:1", "/", "")
	if err == nil {
		t.Fatal("expected connect to fail against a closed port")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("retry loop did not stay bounded, took %v", elapsed)
	}
	if s.IsConnected() {
		t.Fatal("session reports connected after failed dial")
	}
}

func TestEmitWhileDisconnected(t *testing.T) {
	s := NewSession("client-a", treestate.NewStore(), 1, time.Millisecond, zerolog.Nop())
	f := model.File{ID: "file-1", WorkspaceID: "ws-1", FolderID: "folder-1"}
	err := s.Emit(Event{Kind: EventInsertFile, WorkspaceID: "ws-1", FolderID: "folder-1", FileID: f.ID, File: &f})
	if err == nil {
		t.Fatal("expected error emitting on a disconnected session")
	}
}
