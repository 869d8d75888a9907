package access

import (
	"testing"

	"app/internal/model"
)

func testWorkspace() *model.Workspace {
	return &model.Workspace{ID: "ws-1", OwnerID: "owner"}
}

func testCollaborators() []model.Collaborator {
	return []model.Collaborator{
		{WorkspaceID: "ws-1", UserID: "collab"},
		{WorkspaceID: "ws-other", UserID: "stranger"},
	}
}

func TestCanRead(t *testing.T) {
	ws := testWorkspace()
	collabs := testCollaborators()

	if !CanRead("owner", ws, nil) {
		t.Fatal("owner denied read")
	}
	if !CanRead("collab", ws, collabs) {
		t.Fatal("collaborator denied read")
	}
	if CanRead("stranger", ws, collabs) {
		t.Fatal("collaborator row for a different workspace granted read")
	}
	if CanRead("nobody", ws, collabs) {
		t.Fatal("unrelated user granted read")
	}
	if CanRead("", ws, collabs) {
		t.Fatal("empty principal granted read")
	}
	if CanRead("owner", nil, collabs) {
		t.Fatal("nil workspace granted read")
	}
}

func TestCanWriteMatchesCanRead(t *testing.T) {
	ws := testWorkspace()
	collabs := testCollaborators()
	if !CanWrite("collab", ws, collabs) {
		t.Fatal("collaborator denied write")
	}
	if CanWrite("nobody", ws, collabs) {
		t.Fatal("unrelated user granted write")
	}
}

func TestCanDeleteIsOwnerOnly(t *testing.T) {
	ws := testWorkspace()
	if !CanDelete("owner", ws) {
		t.Fatal("owner denied delete")
	}
	if CanDelete("collab", ws) {
		t.Fatal("collaborator granted delete")
	}
	if CanDelete("owner", nil) {
		t.Fatal("nil workspace granted delete")
	}
}

func TestCanReadFolderChecksParent(t *testing.T) {
	ws := testWorkspace()
	folder := &model.Folder{ID: "folder-1", WorkspaceID: "ws-1"}
	orphan := &model.Folder{ID: "folder-2", WorkspaceID: "ws-other"}

	if !CanReadFolder("owner", folder, ws, nil) {
		t.Fatal("owner denied folder read")
	}
	if CanReadFolder("owner", orphan, ws, nil) {
		t.Fatal("folder under a different workspace granted read")
	}
	if CanReadFolder("owner", nil, ws, nil) {
		t.Fatal("nil folder granted read")
	}
}

func TestCanReadFileChecksParent(t *testing.T) {
	ws := testWorkspace()
	file := &model.File{ID: "file-1", WorkspaceID: "ws-1"}
	orphan := &model.File{ID: "file-2", WorkspaceID: "ws-other"}

	if !CanReadFile("collab", file, ws, testCollaborators()) {
		t.Fatal("collaborator denied file read")
	}
	if CanReadFile("owner", orphan, ws, nil) {
		t.Fatal("file under a different workspace granted read")
	}
}

func TestCanCustomizeBranding(t *testing.T) {
	if !CanCustomizeBranding(model.StatusActive) {
		t.Fatal("active subscription denied branding")
	}
	for _, status := range []model.SubscriptionStatus{"", model.StatusTrialing, model.StatusCanceled, model.StatusPastDue} {
		if CanCustomizeBranding(status) {
			t.Errorf("status %q granted branding", status)
		}
	}
}
