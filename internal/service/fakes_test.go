package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"app/internal/model"
)

// In-memory repository fakes for service tests.

type fakeWorkspaceRepo struct {
	workspaces map[string]*model.Workspace
	deleted    []string
}

func newFakeWorkspaceRepo() *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{workspaces: make(map[string]*model.Workspace)}
}

func (r *fakeWorkspaceRepo) CreateWorkspace(ctx context.Context, w *model.Workspace) error {
	if w.ID == "" {
		w.ID = fmt.Sprintf("ws-%d", len(r.workspaces)+1)
	}
	w.CreatedAt = time.Now()
	cp := *w
	r.workspaces[w.ID] = &cp
	return nil
}

func (r *fakeWorkspaceRepo) GetWorkspaceByID(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	w, ok := r.workspaces[workspaceID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWorkspaceRepo) UpdateWorkspace(ctx context.Context, workspaceID string, patch model.WorkspacePatch) (*model.Workspace, error) {
	w, ok := r.workspaces[workspaceID]
	if !ok {
		return nil, nil
	}
	updated := patch.ApplyTo(*w)
	r.workspaces[workspaceID] = &updated
	cp := updated
	return &cp, nil
}

func (r *fakeWorkspaceRepo) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	delete(r.workspaces, workspaceID)
	r.deleted = append(r.deleted, workspaceID)
	return nil
}

func (r *fakeWorkspaceRepo) ListPrivateWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error) {
	return nil, nil
}

func (r *fakeWorkspaceRepo) ListSharedWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error) {
	return nil, nil
}

func (r *fakeWorkspaceRepo) ListCollaboratingWorkspaces(ctx context.Context, userID string) ([]model.Workspace, error) {
	return nil, nil
}

type fakeCollaboratorRepo struct {
	// workspaceID -> userID set
	rows map[string]map[string]bool
}

func newFakeCollaboratorRepo() *fakeCollaboratorRepo {
	return &fakeCollaboratorRepo{rows: make(map[string]map[string]bool)}
}

func (r *fakeCollaboratorRepo) AddCollaborators(ctx context.Context, workspaceID string, userIDs []string) error {
	room, ok := r.rows[workspaceID]
	if !ok {
		room = make(map[string]bool)
		r.rows[workspaceID] = room
	}
	for _, id := range userIDs {
		room[id] = true
	}
	return nil
}

func (r *fakeCollaboratorRepo) RemoveCollaborator(ctx context.Context, workspaceID, userID string) error {
	delete(r.rows[workspaceID], userID)
	return nil
}

func (r *fakeCollaboratorRepo) ListCollaborators(ctx context.Context, workspaceID string) ([]model.Collaborator, error) {
	out := []model.Collaborator{}
	for userID := range r.rows[workspaceID] {
		out = append(out, model.Collaborator{WorkspaceID: workspaceID, UserID: userID})
	}
	return out, nil
}

func (r *fakeCollaboratorRepo) CountCollaborators(ctx context.Context, workspaceID string) (int, error) {
	return len(r.rows[workspaceID]), nil
}

func (r *fakeCollaboratorRepo) IsCollaborator(ctx context.Context, workspaceID, userID string) (bool, error) {
	return r.rows[workspaceID][userID], nil
}

type fakeFolderRepo struct {
	folders map[string]*model.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*model.Folder)}
}

func (r *fakeFolderRepo) CreateFolder(ctx context.Context, f *model.Folder) error {
	if f.ID == "" {
		f.ID = fmt.Sprintf("folder-%d", len(r.folders)+1)
	}
	f.CreatedAt = time.Now()
	cp := *f
	r.folders[f.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetFolderByID(ctx context.Context, folderID string) (*model.Folder, error) {
	f, ok := r.folders[folderID]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) UpdateFolder(ctx context.Context, folderID string, patch model.FolderPatch) (*model.Folder, error) {
	f, ok := r.folders[folderID]
	if !ok {
		return nil, nil
	}
	updated := patch.ApplyTo(*f)
	r.folders[folderID] = &updated
	cp := updated
	return &cp, nil
}

func (r *fakeFolderRepo) DeleteFolder(ctx context.Context, folderID string) error {
	delete(r.folders, folderID)
	return nil
}

func (r *fakeFolderRepo) ListFoldersByWorkspace(ctx context.Context, workspaceID string) ([]model.Folder, error) {
	out := []model.Folder{}
	for _, f := range r.folders {
		if f.WorkspaceID == workspaceID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) CountFoldersByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	n := 0
	for _, f := range r.folders {
		if f.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

type fakeFileRepo struct {
	files map[string]*model.File
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*model.File)}
}

func (r *fakeFileRepo) CreateFile(ctx context.Context, f *model.File) error {
	if f.ID == "" {
		f.ID = fmt.Sprintf("file-%d", len(r.files)+1)
	}
	f.CreatedAt = time.Now()
	cp := *f
	r.files[f.ID] = &cp
	return nil
}

func (r *fakeFileRepo) GetFileByID(ctx context.Context, fileID string) (*model.File, error) {
	f, ok := r.files[fileID]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) UpdateFile(ctx context.Context, fileID string, patch model.FilePatch) (*model.File, error) {
	f, ok := r.files[fileID]
	if !ok {
		return nil, nil
	}
	updated := patch.ApplyTo(*f)
	r.files[fileID] = &updated
	cp := updated
	return &cp, nil
}

func (r *fakeFileRepo) DeleteFile(ctx context.Context, fileID string) error {
	delete(r.files, fileID)
	return nil
}

func (r *fakeFileRepo) ListFilesByFolder(ctx context.Context, folderID string) ([]model.File, error) {
	out := []model.File{}
	for _, f := range r.files {
		if f.FolderID == folderID {
			out = append(out, *f)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u *model.User) error {
	if u.UserID == "" {
		u.UserID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	cp := *u
	r.users[u.UserID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SearchUsersByEmail(ctx context.Context, query string) ([]model.User, error) {
	out := []model.User{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Email), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	subs map[string]*model.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*model.Subscription)}
}

func (r *fakeSubscriptionRepo) GetSubscriptionByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	s, ok := r.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubscriptionRepo) UpsertSubscription(ctx context.Context, s *model.Subscription) error {
	cp := *s
	r.subs[s.UserID] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) ListActiveProductsWithPrices(ctx context.Context) ([]model.Product, error) {
	return nil, nil
}
