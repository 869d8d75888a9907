package service

import (
	"context"
	"testing"

	"app/internal/apperr"
	"app/internal/model"

	"github.com/rs/zerolog"
)

func newWorkspaceFixture(t *testing.T) (WorkspaceService, *fakeWorkspaceRepo, *fakeCollaboratorRepo) {
	t.Helper()
	wsRepo := newFakeWorkspaceRepo()
	collabRepo := newFakeCollaboratorRepo()
	svc := NewWorkspaceService(wsRepo, collabRepo, zerolog.Nop())
	return svc, wsRepo, collabRepo
}

func seedWorkspace(t *testing.T, svc WorkspaceService, ownerID string) *model.Workspace {
	t.Helper()
	w, err := svc.CreateWorkspace(context.Background(), &model.Workspace{OwnerID: ownerID, Title: "Notes", IconID: "💼"})
	if err != nil {
		t.Fatalf("seed workspace: %v", err)
	}
	return w
}

func TestCreateWorkspaceRequiresOwnerAndTitle(t *testing.T) {
	svc, _, _ := newWorkspaceFixture(t)
	if _, err := svc.CreateWorkspace(context.Background(), &model.Workspace{Title: "x"}); !apperr.Is(err, apperr.KindValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.CreateWorkspace(context.Background(), &model.Workspace{OwnerID: "owner"}); !apperr.Is(err, apperr.KindValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetWorkspaceDetailsAccess(t *testing.T) {
	svc, _, collabRepo := newWorkspaceFixture(t)
	w := seedWorkspace(t, svc, "owner")
	collabRepo.AddCollaborators(context.Background(), w.ID, []string{"collab"})

	if _, err := svc.GetWorkspaceDetails(context.Background(), "owner", w.ID); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
	if _, err := svc.GetWorkspaceDetails(context.Background(), "collab", w.ID); err != nil {
		t.Fatalf("collaborator denied: %v", err)
	}
	if _, err := svc.GetWorkspaceDetails(context.Background(), "stranger", w.ID); !apperr.Is(err, apperr.KindPermissionDenied) {
		t.Fatalf("expected permission denied for stranger, got %v", err)
	}
	if _, err := svc.GetWorkspaceDetails(context.Background(), "owner", "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateWorkspaceAppliesPatch(t *testing.T) {
	svc, _, _ := newWorkspaceFixture(t)
	w := seedWorkspace(t, svc, "owner")

	title := "Renamed"
	updated, err := svc.UpdateWorkspace(context.Background(), "owner", w.ID, model.WorkspacePatch{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("expected Renamed, got %q", updated.Title)
	}
	if updated.IconID != "💼" {
		t.Fatal("patch clobbered a field it did not carry")
	}
}

func TestDeleteWorkspaceIsOwnerOnly(t *testing.T) {
	svc, wsRepo, collabRepo := newWorkspaceFixture(t)
	w := seedWorkspace(t, svc, "owner")
	collabRepo.AddCollaborators(context.Background(), w.ID, []string{"collab"})

	if err := svc.DeleteWorkspace(context.Background(), "collab", w.ID); !apperr.Is(err, apperr.KindPermissionDenied) {
		t.Fatalf("expected permission denied for collaborator, got %v", err)
	}
	if err := svc.DeleteWorkspace(context.Background(), "owner", w.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if len(wsRepo.deleted) != 1 || wsRepo.deleted[0] != w.ID {
		t.Fatal("cascade delete not issued to the repository")
	}
}
