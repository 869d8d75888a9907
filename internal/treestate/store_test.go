package treestate

import (
	"testing"

	"app/internal/model"
)

func TestStoreSnapshotRestore(t *testing.T) {
	st := NewStore()
	st.Dispatch(Action{Kind: SetWorkspaces, Workspaces: testState().Workspaces})

	snap := st.Snapshot()

	// Optimistic local add whose persistence call then fails.
	f := testFile("file-optimistic", baseTime())
	st.Dispatch(Action{Kind: AddFile, WorkspaceID: "ws-1", FolderID: "folder-1", File: &f})
	if len(st.State().Workspaces[0].Folders[0].Files) != 2 {
		t.Fatal("optimistic add not applied")
	}

	st.Restore(snap)
	if len(st.State().Workspaces[0].Folders[0].Files) != 1 {
		t.Fatal("restore did not roll back the optimistic add")
	}
}

func TestStoreStateReturnsCopy(t *testing.T) {
	st := NewStore()
	st.Dispatch(Action{Kind: SetWorkspaces, Workspaces: testState().Workspaces})

	s := st.State()
	s.Workspaces[0].Folders[0].Files = append(s.Workspaces[0].Folders[0].Files, model.File{ID: "rogue"})

	if len(st.State().Workspaces[0].Folders[0].Files) != 1 {
		t.Fatal("mutating the returned state leaked into the store")
	}
}

func TestStoreViewTracking(t *testing.T) {
	st := NewStore()
	st.SetView("ws-1", "folder-1", "file-1")

	if !st.IsViewingFile("file-1") {
		t.Fatal("expected IsViewingFile to report the open file")
	}
	if st.IsViewingFile("file-2") {
		t.Fatal("IsViewingFile matched a different file")
	}

	st.SetView("ws-1", "", "")
	if st.IsViewingFile("") {
		t.Fatal("empty file id must never count as viewing")
	}
}

func TestStoreFolderCount(t *testing.T) {
	st := NewStore()
	st.Dispatch(Action{Kind: SetWorkspaces, Workspaces: testState().Workspaces})
	if got := st.FolderCount("ws-1"); got != 1 {
		t.Fatalf("expected 1 folder, got %d", got)
	}
	if got := st.FolderCount("ws-unknown"); got != 0 {
		t.Fatalf("expected 0 folders for unknown workspace, got %d", got)
	}
}
