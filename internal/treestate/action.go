package treestate

import "app/internal/model"

// ActionKind enumerates every mutation the tree projection understands.
// The set is closed: unknown kinds are ignored by Apply.
type ActionKind string

const (
	SetWorkspaces   ActionKind = "set-workspaces"
	AddWorkspace    ActionKind = "add-workspace"
	UpdateWorkspace ActionKind = "update-workspace"
	DeleteWorkspace ActionKind = "delete-workspace"

	SetFolders   ActionKind = "set-folders"
	AddFolder    ActionKind = "add-folder"
	UpdateFolder ActionKind = "update-folder"
	DeleteFolder ActionKind = "delete-folder"

	SetFiles   ActionKind = "set-files"
	AddFile    ActionKind = "add-file"
	UpdateFile ActionKind = "update-file"
	DeleteFile ActionKind = "delete-file"
)

// Action is one tree mutation. Which payload fields matter depends on the
// kind; scoping ids (WorkspaceID, FolderID) address the sibling list the
// action targets.
type Action struct {
	Kind ActionKind

	WorkspaceID string
	FolderID    string
	FileID      string

	Workspaces []WorkspaceNode // SetWorkspaces
	Workspace  *WorkspaceNode  // AddWorkspace
	Folders    []FolderNode    // SetFolders
	Folder     *FolderNode     // AddFolder
	Files      []model.File    // SetFiles
	File       *model.File     // AddFile

	WorkspacePatch *model.WorkspacePatch // UpdateWorkspace
	FolderPatch    *model.FolderPatch    // UpdateFolder
	FilePatch      *model.FilePatch      // UpdateFile
}
