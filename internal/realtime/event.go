// Package realtime is the fanout channel: a websocket hub that pushes
// structural and content mutations to every other client viewing the same
// workspace. Delivery is at-least-once; consumers reconcile through the
// tree projection's idempotent apply.
package realtime

import (
	"encoding/json"
	"fmt"

	"app/internal/model"
)

// EventKind enumerates the wire events. The schema is closed and
// versioned by kind; unknown kinds are rejected at decode time.
//
// Only file-level propagation is implemented. Folder- and workspace-level
// structural changes persist but do not fan out yet; adding their kinds
// here is the extension point.
type EventKind string

const (
	EventInsertFile EventKind = "insert-file"
	EventUpdateFile EventKind = "update-file"
	EventDeleteFile EventKind = "delete-file"
)

// Event is one fanout message. WorkspaceID routes the event to the room;
// the remaining payload depends on the kind.
type Event struct {
	Kind        EventKind        `json:"kind"`
	WorkspaceID string           `json:"workspace_id"`
	FolderID    string           `json:"folder_id"`
	FileID      string           `json:"file_id"`
	File        *model.File      `json:"file,omitempty"`
	Patch       *model.FilePatch `json:"patch,omitempty"`
}

// Validate enforces the per-kind payload shape before an event is accepted
// for fanout or applied on receipt.
func (e Event) Validate() error {
	if e.WorkspaceID == "" {
		return fmt.Errorf("event %q missing workspace id", e.Kind)
	}
	if e.FolderID == "" {
		return fmt.Errorf("event %q missing folder id", e.Kind)
	}
	switch e.Kind {
	case EventInsertFile:
		if e.File == nil || e.File.ID == "" {
			return fmt.Errorf("insert-file event missing file payload")
		}
	case EventUpdateFile:
		if e.FileID == "" {
			return fmt.Errorf("update-file event missing file id")
		}
		if e.Patch == nil {
			return fmt.Errorf("update-file event missing patch payload")
		}
	case EventDeleteFile:
		if e.FileID == "" {
			return fmt.Errorf("delete-file event missing file id")
		}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}

// Encode serializes the event for the wire.
func (e Event) Encode() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// DecodeEvent parses and validates a wire message.
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("malformed event payload: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}
