package service

import (
	"context"
	"testing"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/quota"

	"github.com/rs/zerolog"
)

type collaboratorFixture struct {
	svc        CollaboratorService
	collabRepo *fakeCollaboratorRepo
	userRepo   *fakeUserRepo
	subRepo    *fakeSubscriptionRepo
	ws         *model.Workspace
}

func newCollaboratorFixture(t *testing.T) *collaboratorFixture {
	t.Helper()
	wsRepo := newFakeWorkspaceRepo()
	collabRepo := newFakeCollaboratorRepo()
	userRepo := newFakeUserRepo()
	subRepo := newFakeSubscriptionRepo()
	wsSvc := NewWorkspaceService(wsRepo, collabRepo, zerolog.Nop())
	eval := quota.Evaluator{FolderLimit: 100, CollaboratorLimit: 2}
	svc := NewCollaboratorService(collabRepo, userRepo, wsSvc, subRepo, eval, zerolog.Nop())

	for _, u := range []model.User{
		{UserID: "owner", Email: "owner@example.com"},
		{UserID: "alice", Email: "alice@example.com"},
		{UserID: "bob", Email: "bob@example.com"},
		{UserID: "carol", Email: "carol@other.org"},
	} {
		cp := u
		userRepo.CreateUser(context.Background(), &cp)
	}

	ws := seedWorkspace(t, wsSvc, "owner")
	return &collaboratorFixture{svc: svc, collabRepo: collabRepo, userRepo: userRepo, subRepo: subRepo, ws: ws}
}

func TestAddCollaboratorsIsIdempotent(t *testing.T) {
	fx := newCollaboratorFixture(t)
	ctx := context.Background()

	if err := fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"alice", "bob"}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	// Retry with the cap already full: existing users do not count as new,
	// so the retry must succeed and change nothing.
	if err := fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"alice", "bob"}); err != nil {
		t.Fatalf("idempotent retry failed: %v", err)
	}
	if n, _ := fx.collabRepo.CountCollaborators(ctx, fx.ws.ID); n != 2 {
		t.Fatalf("expected 2 collaborators, got %d", n)
	}
}

func TestAddCollaboratorsEnforcesCap(t *testing.T) {
	fx := newCollaboratorFixture(t)
	ctx := context.Background()

	if err := fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"alice", "bob"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	err := fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"carol"})
	if !apperr.Is(err, apperr.KindQuotaExceeded) {
		t.Fatalf("expected quota exceeded, got %v", err)
	}
	// The denied request must not have written anything.
	if n, _ := fx.collabRepo.CountCollaborators(ctx, fx.ws.ID); n != 2 {
		t.Fatalf("denied add leaked a write, count = %d", n)
	}
}

func TestAddCollaboratorsActiveSubscriptionBypassesCap(t *testing.T) {
	fx := newCollaboratorFixture(t)
	ctx := context.Background()
	fx.subRepo.UpsertSubscription(ctx, activeSubscription("owner"))

	if err := fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"alice", "bob", "carol"}); err != nil {
		t.Fatalf("active subscription still capped: %v", err)
	}
	if n, _ := fx.collabRepo.CountCollaborators(ctx, fx.ws.ID); n != 3 {
		t.Fatalf("expected 3 collaborators, got %d", n)
	}
}

func TestAddCollaboratorsOwnerOnly(t *testing.T) {
	fx := newCollaboratorFixture(t)
	ctx := context.Background()
	fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"alice"})

	err := fx.svc.AddCollaborators(ctx, "alice", fx.ws.ID, []string{"bob"})
	if !apperr.Is(err, apperr.KindPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestAddCollaboratorsSkipsOwner(t *testing.T) {
	fx := newCollaboratorFixture(t)
	ctx := context.Background()
	if err := fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"owner"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if n, _ := fx.collabRepo.CountCollaborators(ctx, fx.ws.ID); n != 0 {
		t.Fatal("owner was added as a collaborator of their own workspace")
	}
}

func TestRemoveCollaborator(t *testing.T) {
	fx := newCollaboratorFixture(t)
	ctx := context.Background()
	fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"alice", "bob"})

	// A collaborator may remove themselves but nobody else.
	if err := fx.svc.RemoveCollaborator(ctx, "alice", fx.ws.ID, "bob"); !apperr.Is(err, apperr.KindPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := fx.svc.RemoveCollaborator(ctx, "alice", fx.ws.ID, "alice"); err != nil {
		t.Fatalf("self-removal failed: %v", err)
	}
	if err := fx.svc.RemoveCollaborator(ctx, "owner", fx.ws.ID, "bob"); err != nil {
		t.Fatalf("owner removal failed: %v", err)
	}
	// Removing a non-collaborator is a no-op, not an error.
	if err := fx.svc.RemoveCollaborator(ctx, "owner", fx.ws.ID, "bob"); err != nil {
		t.Fatalf("no-op removal errored: %v", err)
	}
}

func TestListCollaboratorsResolvesProfiles(t *testing.T) {
	fx := newCollaboratorFixture(t)
	ctx := context.Background()
	fx.svc.AddCollaborators(ctx, "owner", fx.ws.ID, []string{"alice"})

	users, err := fx.svc.ListCollaborators(ctx, "owner", fx.ws.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 1 || users[0].Email != "alice@example.com" {
		t.Fatalf("expected alice's profile, got %+v", users)
	}
}

func TestSearchUsersByEmail(t *testing.T) {
	fx := newCollaboratorFixture(t)
	ctx := context.Background()

	users, err := fx.svc.SearchUsersByEmail(ctx, "alice", "example.com")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, u := range users {
		if u.UserID == "alice" {
			t.Fatal("search returned the caller")
		}
	}
	if len(users) != 2 {
		t.Fatalf("expected owner and bob, got %d results", len(users))
	}

	// Blank and whitespace queries return nothing rather than everyone.
	users, err = fx.svc.SearchUsersByEmail(ctx, "alice", "   ")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no results for blank query, got %d", len(users))
	}
}
