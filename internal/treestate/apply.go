package treestate

import "app/internal/model"

// Apply returns the state that results from one action. The input state is
// never mutated.
//
// Contract, matching the fanout channel's at-least-once delivery:
//   - adds are idempotent: an add for a node id already in the target
//     sibling list leaves the list unchanged
//   - adds re-sort the affected sibling list by CreatedAt ascending, so
//     presentation order is creation order regardless of arrival order
//   - actions addressed at a workspace or folder this state does not hold
//     are a no-op, not an error (the event is stale or out of scope)
func Apply(s State, a Action) State {
	switch a.Kind {
	case SetWorkspaces:
		out := State{Workspaces: append([]WorkspaceNode(nil), a.Workspaces...)}
		return out.Clone()

	case AddWorkspace:
		if a.Workspace == nil || s.FindWorkspace(a.Workspace.ID) >= 0 {
			return s
		}
		out := s.Clone()
		out.Workspaces = append(out.Workspaces, *a.Workspace)
		return out

	case UpdateWorkspace:
		wi := s.FindWorkspace(a.WorkspaceID)
		if wi < 0 || a.WorkspacePatch == nil {
			return s
		}
		out := s.Clone()
		out.Workspaces[wi].Workspace = a.WorkspacePatch.ApplyTo(out.Workspaces[wi].Workspace)
		return out

	case DeleteWorkspace:
		wi := s.FindWorkspace(a.WorkspaceID)
		if wi < 0 {
			return s
		}
		out := s.Clone()
		out.Workspaces = append(out.Workspaces[:wi], out.Workspaces[wi+1:]...)
		return out

	case SetFolders:
		wi := s.FindWorkspace(a.WorkspaceID)
		if wi < 0 {
			return s
		}
		out := s.Clone()
		folders := make([]FolderNode, len(a.Folders))
		for i, fo := range a.Folders {
			cp := fo
			cp.Files = append([]model.File(nil), fo.Files...)
			folders[i] = cp
		}
		sortFolders(folders)
		out.Workspaces[wi].Folders = folders
		return out

	case AddFolder:
		if a.Folder == nil {
			return s
		}
		wi, fi := s.FindFolder(a.WorkspaceID, a.Folder.ID)
		if wi < 0 || fi >= 0 {
			return s
		}
		out := s.Clone()
		out.Workspaces[wi].Folders = append(out.Workspaces[wi].Folders, *a.Folder)
		sortFolders(out.Workspaces[wi].Folders)
		return out

	case UpdateFolder:
		wi, fi := s.FindFolder(a.WorkspaceID, a.FolderID)
		if wi < 0 || fi < 0 || a.FolderPatch == nil {
			return s
		}
		out := s.Clone()
		out.Workspaces[wi].Folders[fi].Folder = a.FolderPatch.ApplyTo(out.Workspaces[wi].Folders[fi].Folder)
		return out

	case DeleteFolder:
		wi, fi := s.FindFolder(a.WorkspaceID, a.FolderID)
		if wi < 0 || fi < 0 {
			return s
		}
		out := s.Clone()
		folders := out.Workspaces[wi].Folders
		out.Workspaces[wi].Folders = append(folders[:fi], folders[fi+1:]...)
		return out

	case SetFiles:
		wi, fi := s.FindFolder(a.WorkspaceID, a.FolderID)
		if wi < 0 || fi < 0 {
			return s
		}
		out := s.Clone()
		files := append([]model.File(nil), a.Files...)
		sortFiles(files)
		out.Workspaces[wi].Folders[fi].Files = files
		return out

	case AddFile:
		if a.File == nil {
			return s
		}
		wi, fi := s.FindFolder(a.WorkspaceID, a.FolderID)
		if wi < 0 || fi < 0 {
			return s
		}
		for _, f := range s.Workspaces[wi].Folders[fi].Files {
			if f.ID == a.File.ID {
				return s
			}
		}
		out := s.Clone()
		out.Workspaces[wi].Folders[fi].Files = append(out.Workspaces[wi].Folders[fi].Files, *a.File)
		sortFiles(out.Workspaces[wi].Folders[fi].Files)
		return out

	case UpdateFile:
		wi, fi := s.FindFolder(a.WorkspaceID, a.FolderID)
		if wi < 0 || fi < 0 || a.FilePatch == nil {
			return s
		}
		for i, f := range s.Workspaces[wi].Folders[fi].Files {
			if f.ID == a.FileID {
				out := s.Clone()
				out.Workspaces[wi].Folders[fi].Files[i] = a.FilePatch.ApplyTo(f)
				return out
			}
		}
		return s

	case DeleteFile:
		wi, fi := s.FindFolder(a.WorkspaceID, a.FolderID)
		if wi < 0 || fi < 0 {
			return s
		}
		for i, f := range s.Workspaces[wi].Folders[fi].Files {
			if f.ID == a.FileID {
				out := s.Clone()
				files := out.Workspaces[wi].Folders[fi].Files
				out.Workspaces[wi].Folders[fi].Files = append(files[:i], files[i+1:]...)
				return out
			}
		}
		return s

	default:
		return s
	}
}
