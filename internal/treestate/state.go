// Package treestate maintains the client-visible projection of the
// workspace tree. The store of record is Postgres; this projection is
// derived from it and reconciled against realtime events. Apply is pure
// and idempotent so duplicated or re-ordered event delivery cannot corrupt
// the tree.
package treestate

import (
	"sort"

	"app/internal/model"
)

// FolderNode is a folder together with its files.
type FolderNode struct {
	model.Folder
	Files []model.File
}

// WorkspaceNode is a workspace together with its folders.
type WorkspaceNode struct {
	model.Workspace
	Folders []FolderNode
}

// State is the denormalized in-memory tree. Values are treated as
// immutable: Apply returns a new State and never mutates its input.
type State struct {
	Workspaces []WorkspaceNode
}

// Clone deep-copies the state. Apply uses it so callers can hold onto old
// snapshots (e.g. for optimistic rollback).
func (s State) Clone() State {
	out := State{Workspaces: make([]WorkspaceNode, len(s.Workspaces))}
	for i, ws := range s.Workspaces {
		cp := ws
		cp.Folders = make([]FolderNode, len(ws.Folders))
		for j, fo := range ws.Folders {
			fcp := fo
			fcp.Files = append([]model.File(nil), fo.Files...)
			cp.Folders[j] = fcp
		}
		out.Workspaces[i] = cp
	}
	return out
}

// FindWorkspace returns the index of the workspace, -1 if absent.
func (s State) FindWorkspace(workspaceID string) int {
	for i, ws := range s.Workspaces {
		if ws.ID == workspaceID {
			return i
		}
	}
	return -1
}

// FindFolder returns the workspace and folder indices, (-1, -1) if either
// is absent.
func (s State) FindFolder(workspaceID, folderID string) (int, int) {
	wi := s.FindWorkspace(workspaceID)
	if wi < 0 {
		return -1, -1
	}
	for fi, fo := range s.Workspaces[wi].Folders {
		if fo.ID == folderID {
			return wi, fi
		}
	}
	return wi, -1
}

// FolderCount returns the number of folders in the given workspace. Quota
// usage is recomputed from this whenever the tree changes.
func (s State) FolderCount(workspaceID string) int {
	wi := s.FindWorkspace(workspaceID)
	if wi < 0 {
		return 0
	}
	return len(s.Workspaces[wi].Folders)
}

// Presentation order is creation order, never event arrival order. The
// sorts are stable so equal timestamps keep their relative position.

func sortFolders(folders []FolderNode) {
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].CreatedAt.Before(folders[j].CreatedAt)
	})
}

func sortFiles(files []model.File) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
}
