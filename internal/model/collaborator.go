package model

import "time"

// Collaborator joins a user to a workspace they can read and write. A
// workspace with zero collaborator rows is private.
type Collaborator struct {
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
