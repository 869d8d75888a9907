package treestate

import "sync"

// Store is a session-scoped container around State. Each connected client
// session owns exactly one Store; nothing here is process-global, so one
// server can host many sessions without them sharing tree state.
//
// Local mutations are applied optimistically before the persistence call is
// issued; Snapshot/Restore support rolling back when that call fails.
type Store struct {
	mu    sync.RWMutex
	state State

	// Current view, used to decide the navigate-away side effect when a
	// delete event arrives for the resource being looked at.
	workspaceID string
	folderID    string
	fileID      string
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Dispatch applies the action and returns the resulting state.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Apply(st.state, a)
	return st.state
}

// State returns a deep copy of the current state.
func (st *Store) State() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.Clone()
}

// Snapshot captures the current state for a later Restore.
func (st *Store) Snapshot() State {
	return st.State()
}

// Restore replaces the state with a previously captured snapshot. Used to
// roll back an optimistic mutation whose persistence failed; drifted
// local/remote state is a defect, not an acceptable outcome.
func (st *Store) Restore(s State) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = s.Clone()
}

// SetView records what the session is currently looking at. Empty ids mean
// "not viewing one".
func (st *Store) SetView(workspaceID, folderID, fileID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.workspaceID = workspaceID
	st.folderID = folderID
	st.fileID = fileID
}

// View returns the current view ids.
func (st *Store) View() (workspaceID, folderID, fileID string) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.workspaceID, st.folderID, st.fileID
}

// IsViewingFile reports whether the session currently has the file open.
func (st *Store) IsViewingFile(fileID string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return fileID != "" && st.fileID == fileID
}

// FolderCount reports the folder count for a workspace in current state.
func (st *Store) FolderCount(workspaceID string) int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.FolderCount(workspaceID)
}
