package service

import (
	"context"
	"testing"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/quota"
	"app/internal/realtime"

	"github.com/rs/zerolog"
)

type recordingSubscriber struct {
	id     string
	events []realtime.Event
}

func (r *recordingSubscriber) ClientID() string { return r.id }

func (r *recordingSubscriber) Deliver(e realtime.Event) bool {
	r.events = append(r.events, e)
	return true
}

type fileFixture struct {
	svc    FileService
	hub    *realtime.Hub
	ws     *model.Workspace
	folder *model.Folder
	viewer *recordingSubscriber
	sender *recordingSubscriber
}

func newFileFixture(t *testing.T) *fileFixture {
	t.Helper()
	wsRepo := newFakeWorkspaceRepo()
	collabRepo := newFakeCollaboratorRepo()
	folderRepo := newFakeFolderRepo()
	fileRepo := newFakeFileRepo()
	subRepo := newFakeSubscriptionRepo()

	wsSvc := NewWorkspaceService(wsRepo, collabRepo, zerolog.Nop())
	eval := quota.Evaluator{FolderLimit: 100, CollaboratorLimit: 2}
	folderSvc := NewFolderService(folderRepo, wsSvc, subRepo, eval, zerolog.Nop())
	hub := realtime.NewHub(zerolog.Nop())
	svc := NewFileService(fileRepo, folderSvc, hub, zerolog.Nop())

	ws := seedWorkspace(t, wsSvc, "owner")
	folder, err := folderSvc.CreateFolder(context.Background(), "owner", &model.Folder{WorkspaceID: ws.ID, Title: "Docs", IconID: "📁"})
	if err != nil {
		t.Fatalf("seed folder: %v", err)
	}

	sender := &recordingSubscriber{id: "client-sender"}
	viewer := &recordingSubscriber{id: "client-viewer"}
	hub.Join(ws.ID, sender)
	hub.Join(ws.ID, viewer)

	return &fileFixture{svc: svc, hub: hub, ws: ws, folder: folder, viewer: viewer, sender: sender}
}

func TestCreateFileEmitsInsertToOthers(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()

	created, err := fx.svc.CreateFile(ctx, "owner", "client-sender", &model.File{
		WorkspaceID: fx.ws.ID,
		FolderID:    fx.folder.ID,
		Title:       "Meeting notes",
		IconID:      "📄",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(fx.sender.events) != 0 {
		t.Fatal("insert event echoed back to the mutating client")
	}
	if len(fx.viewer.events) != 1 {
		t.Fatalf("expected 1 event for the viewer, got %d", len(fx.viewer.events))
	}
	e := fx.viewer.events[0]
	if e.Kind != realtime.EventInsertFile || e.File == nil || e.File.ID != created.ID {
		t.Fatalf("unexpected event payload: %+v", e)
	}
}

func TestCreateFileRejectsFolderWorkspaceMismatch(t *testing.T) {
	fx := newFileFixture(t)
	_, err := fx.svc.CreateFile(context.Background(), "owner", "", &model.File{
		WorkspaceID: "ws-other",
		FolderID:    fx.folder.ID,
		Title:       "orphan",
		IconID:      "📄",
	})
	if !apperr.Is(err, apperr.KindValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(fx.viewer.events) != 0 {
		t.Fatal("rejected create still emitted an event")
	}
}

func TestUpdateFileEmitsPatch(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	created, err := fx.svc.CreateFile(ctx, "owner", "client-sender", &model.File{WorkspaceID: fx.ws.ID, FolderID: fx.folder.ID, Title: "draft", IconID: "📄"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	title := "final"
	if _, err := fx.svc.UpdateFile(ctx, "owner", "client-sender", created.ID, model.FilePatch{Title: &title}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	last := fx.viewer.events[len(fx.viewer.events)-1]
	if last.Kind != realtime.EventUpdateFile || last.FileID != created.ID {
		t.Fatalf("unexpected event: %+v", last)
	}
	if last.Patch == nil || last.Patch.Title == nil || *last.Patch.Title != "final" {
		t.Fatalf("patch payload missing: %+v", last.Patch)
	}
}

func TestDeleteFileEmitsDelete(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	created, err := fx.svc.CreateFile(ctx, "owner", "client-sender", &model.File{WorkspaceID: fx.ws.ID, FolderID: fx.folder.ID, Title: "doomed", IconID: "📄"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := fx.svc.DeleteFile(ctx, "owner", "client-sender", created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	last := fx.viewer.events[len(fx.viewer.events)-1]
	if last.Kind != realtime.EventDeleteFile || last.FileID != created.ID {
		t.Fatalf("unexpected event: %+v", last)
	}
	if _, err := fx.svc.GetFile(ctx, "owner", created.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestGetFileDeniedForStranger(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	created, err := fx.svc.CreateFile(ctx, "owner", "", &model.File{WorkspaceID: fx.ws.ID, FolderID: fx.folder.ID, Title: "secret", IconID: "📄"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := fx.svc.GetFile(ctx, "stranger", created.ID); !apperr.Is(err, apperr.KindPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}
