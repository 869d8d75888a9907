package model

import "time"

// NodeKind tags the three levels of the workspace tree.
type NodeKind string

const (
	NodeWorkspace NodeKind = "workspace"
	NodeFolder    NodeKind = "folder"
	NodeFile      NodeKind = "file"
)

// TreeNode is the capability shared by all three tree levels. Workspaces
// have an empty parent id.
type TreeNode interface {
	NodeID() string
	ParentID() string
	NodeTitle() string
	NodeCreatedAt() time.Time
	Kind() NodeKind
}

// Workspace is the root of a document tree. Exactly one owner, zero or more
// collaborators.
type Workspace struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Title     string    `db:"title" json:"title"`
	IconID    string    `db:"icon_id" json:"icon_id"`
	Data      string    `db:"data" json:"data"`
	InTrash   string    `db:"in_trash" json:"in_trash"`
	LogoURL   string    `db:"logo_url" json:"logo_url"`
	BannerURL string    `db:"banner_url" json:"banner_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (w Workspace) NodeID() string           { return w.ID }
func (w Workspace) ParentID() string         { return "" }
func (w Workspace) NodeTitle() string        { return w.Title }
func (w Workspace) NodeCreatedAt() time.Time { return w.CreatedAt }
func (w Workspace) Kind() NodeKind           { return NodeWorkspace }

// Folder is a child of exactly one workspace.
type Folder struct {
	ID          string    `db:"id" json:"id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	Title       string    `db:"title" json:"title"`
	IconID      string    `db:"icon_id" json:"icon_id"`
	Data        string    `db:"data" json:"data"`
	InTrash     string    `db:"in_trash" json:"in_trash"`
	BannerURL   string    `db:"banner_url" json:"banner_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (f Folder) NodeID() string           { return f.ID }
func (f Folder) ParentID() string         { return f.WorkspaceID }
func (f Folder) NodeTitle() string        { return f.Title }
func (f Folder) NodeCreatedAt() time.Time { return f.CreatedAt }
func (f Folder) Kind() NodeKind           { return NodeFolder }

// File is a child of exactly one folder. WorkspaceID is carried redundantly
// so fanout events can be routed without a folder lookup.
type File struct {
	ID          string    `db:"id" json:"id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	FolderID    string    `db:"folder_id" json:"folder_id"`
	Title       string    `db:"title" json:"title"`
	IconID      string    `db:"icon_id" json:"icon_id"`
	Data        string    `db:"data" json:"data"`
	InTrash     string    `db:"in_trash" json:"in_trash"`
	BannerURL   string    `db:"banner_url" json:"banner_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (f File) NodeID() string           { return f.ID }
func (f File) ParentID() string         { return f.FolderID }
func (f File) NodeTitle() string        { return f.Title }
func (f File) NodeCreatedAt() time.Time { return f.CreatedAt }
func (f File) Kind() NodeKind           { return NodeFile }

// WorkspacePatch is a partial workspace update. Nil fields are left as-is.
type WorkspacePatch struct {
	Title     *string `json:"title,omitempty"`
	IconID    *string `json:"icon_id,omitempty"`
	Data      *string `json:"data,omitempty"`
	InTrash   *string `json:"in_trash,omitempty"`
	LogoURL   *string `json:"logo_url,omitempty"`
	BannerURL *string `json:"banner_url,omitempty"`
}

// FolderPatch is a partial folder update.
type FolderPatch struct {
	Title     *string `json:"title,omitempty"`
	IconID    *string `json:"icon_id,omitempty"`
	Data      *string `json:"data,omitempty"`
	InTrash   *string `json:"in_trash,omitempty"`
	BannerURL *string `json:"banner_url,omitempty"`
}

// FilePatch is a partial file update.
type FilePatch struct {
	Title     *string `json:"title,omitempty"`
	IconID    *string `json:"icon_id,omitempty"`
	Data      *string `json:"data,omitempty"`
	InTrash   *string `json:"in_trash,omitempty"`
	BannerURL *string `json:"banner_url,omitempty"`
}

// ApplyTo merges the patch into a copy of the workspace.
func (p WorkspacePatch) ApplyTo(w Workspace) Workspace {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.IconID != nil {
		w.IconID = *p.IconID
	}
	if p.Data != nil {
		w.Data = *p.Data
	}
	if p.InTrash != nil {
		w.InTrash = *p.InTrash
	}
	if p.LogoURL != nil {
		w.LogoURL = *p.LogoURL
	}
	if p.BannerURL != nil {
		w.BannerURL = *p.BannerURL
	}
	return w
}

// ApplyTo merges the patch into a copy of the folder.
func (p FolderPatch) ApplyTo(f Folder) Folder {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.IconID != nil {
		f.IconID = *p.IconID
	}
	if p.Data != nil {
		f.Data = *p.Data
	}
	if p.InTrash != nil {
		f.InTrash = *p.InTrash
	}
	if p.BannerURL != nil {
		f.BannerURL = *p.BannerURL
	}
	return f
}

// ApplyTo merges the patch into a copy of the file.
func (p FilePatch) ApplyTo(f File) File {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.IconID != nil {
		f.IconID = *p.IconID
	}
	if p.Data != nil {
		f.Data = *p.Data
	}
	if p.InTrash != nil {
		f.InTrash = *p.InTrash
	}
	if p.BannerURL != nil {
		f.BannerURL = *p.BannerURL
	}
	return f
}
