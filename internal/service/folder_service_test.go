package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/quota"

	"github.com/rs/zerolog"
)

type folderFixture struct {
	svc        FolderService
	workspace  WorkspaceService
	folderRepo *fakeFolderRepo
	collabRepo *fakeCollaboratorRepo
	subRepo    *fakeSubscriptionRepo
	ws         *model.Workspace
}

func newFolderFixture(t *testing.T, folderLimit int) *folderFixture {
	t.Helper()
	wsRepo := newFakeWorkspaceRepo()
	collabRepo := newFakeCollaboratorRepo()
	folderRepo := newFakeFolderRepo()
	subRepo := newFakeSubscriptionRepo()
	wsSvc := NewWorkspaceService(wsRepo, collabRepo, zerolog.Nop())
	eval := quota.Evaluator{FolderLimit: folderLimit, CollaboratorLimit: 2}
	svc := NewFolderService(folderRepo, wsSvc, subRepo, eval, zerolog.Nop())

	ws := seedWorkspace(t, wsSvc, "owner")
	return &folderFixture{svc: svc, workspace: wsSvc, folderRepo: folderRepo, collabRepo: collabRepo, subRepo: subRepo, ws: ws}
}

func (fx *folderFixture) fillQuota(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := fx.svc.CreateFolder(context.Background(), "owner", &model.Folder{
			WorkspaceID: fx.ws.ID,
			Title:       fmt.Sprintf("folder %d", i),
			IconID:      "📁",
		})
		if err != nil {
			t.Fatalf("folder %d: %v", i, err)
		}
	}
}

func activeSubscription(userID string) *model.Subscription {
	return &model.Subscription{
		ID:               "sub-1",
		UserID:           userID,
		Status:           model.StatusActive,
		CurrentPeriodEnd: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestCreateFolderBlockedAtQuota(t *testing.T) {
	fx := newFolderFixture(t, 3)
	fx.fillQuota(t, 3)

	_, err := fx.svc.CreateFolder(context.Background(), "owner", &model.Folder{WorkspaceID: fx.ws.ID, Title: "one too many", IconID: "📁"})
	if !apperr.Is(err, apperr.KindQuotaExceeded) {
		t.Fatalf("expected quota exceeded, got %v", err)
	}
	// The denied request must not have written anything.
	if count, _ := fx.folderRepo.CountFoldersByWorkspace(context.Background(), fx.ws.ID); count != 3 {
		t.Fatalf("denied create leaked a write, count = %d", count)
	}
}

func TestCreateFolderActiveSubscriptionBypassesQuota(t *testing.T) {
	fx := newFolderFixture(t, 3)
	fx.fillQuota(t, 3)
	fx.subRepo.UpsertSubscription(context.Background(), activeSubscription("owner"))

	if _, err := fx.svc.CreateFolder(context.Background(), "owner", &model.Folder{WorkspaceID: fx.ws.ID, Title: "past the limit", IconID: "📁"}); err != nil {
		t.Fatalf("active subscription still blocked: %v", err)
	}
}

func TestCreateFolderQuotaKeyedOnOwner(t *testing.T) {
	// The acting collaborator has an active plan, but the workspace owner
	// does not: the limit still applies.
	fx := newFolderFixture(t, 3)
	fx.collabRepo.AddCollaborators(context.Background(), fx.ws.ID, []string{"collab"})
	fx.fillQuota(t, 3)
	fx.subRepo.UpsertSubscription(context.Background(), activeSubscription("collab"))

	_, err := fx.svc.CreateFolder(context.Background(), "collab", &model.Folder{WorkspaceID: fx.ws.ID, Title: "blocked", IconID: "📁"})
	if !apperr.Is(err, apperr.KindQuotaExceeded) {
		t.Fatalf("expected quota exceeded keyed on owner's plan, got %v", err)
	}
}

func TestCreateFolderDeniedForStranger(t *testing.T) {
	fx := newFolderFixture(t, 3)
	_, err := fx.svc.CreateFolder(context.Background(), "stranger", &model.Folder{WorkspaceID: fx.ws.ID, Title: "nope", IconID: "📁"})
	if !apperr.Is(err, apperr.KindPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestUsagePercentage(t *testing.T) {
	fx := newFolderFixture(t, 4)
	fx.fillQuota(t, 3)

	usage, err := fx.svc.Usage(context.Background(), "owner", fx.ws.ID)
	if err != nil {
		t.Fatalf("usage failed: %v", err)
	}
	if usage != 75 {
		t.Fatalf("expected 75%%, got %v", usage)
	}
}

func TestGetFolderDetailsNotFound(t *testing.T) {
	fx := newFolderFixture(t, 3)
	if _, err := fx.svc.GetFolderDetails(context.Background(), "owner", "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteFolder(t *testing.T) {
	fx := newFolderFixture(t, 3)
	f, err := fx.svc.CreateFolder(context.Background(), "owner", &model.Folder{WorkspaceID: fx.ws.ID, Title: "doomed", IconID: "📁"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := fx.svc.DeleteFolder(context.Background(), "owner", f.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := fx.svc.GetFolderDetails(context.Background(), "owner", f.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
