// Package access holds the authorization rules for the workspace tree.
// Every function is pure and synchronous: callers fetch the workspace and
// its collaborator rows first, then ask. Denial is a normal outcome, not an
// error. The caller decides whether to surface an upgrade prompt or a 404.
package access

import "app/internal/model"

// CanRead reports whether the principal may read the workspace. Owners and
// collaborators may; nobody else.
func CanRead(principal string, workspace *model.Workspace, collaborators []model.Collaborator) bool {
	if workspace == nil || principal == "" {
		return false
	}
	if workspace.OwnerID == principal {
		return true
	}
	for _, c := range collaborators {
		if c.WorkspaceID == workspace.ID && c.UserID == principal {
			return true
		}
	}
	return false
}

// CanWrite matches CanRead: there are no read-only collaborators.
func CanWrite(principal string, workspace *model.Workspace, collaborators []model.Collaborator) bool {
	return CanRead(principal, workspace, collaborators)
}

// CanDelete is owner-only. Collaborators can edit content but not destroy
// the workspace.
func CanDelete(principal string, workspace *model.Workspace) bool {
	return workspace != nil && principal != "" && workspace.OwnerID == principal
}

// CanReadFolder applies the parent workspace's policy; folders carry no
// per-node overrides.
func CanReadFolder(principal string, folder *model.Folder, workspace *model.Workspace, collaborators []model.Collaborator) bool {
	if folder == nil || workspace == nil || folder.WorkspaceID != workspace.ID {
		return false
	}
	return CanRead(principal, workspace, collaborators)
}

// CanReadFile applies the parent workspace's policy.
func CanReadFile(principal string, file *model.File, workspace *model.Workspace, collaborators []model.Collaborator) bool {
	if file == nil || workspace == nil || file.WorkspaceID != workspace.ID {
		return false
	}
	return CanRead(principal, workspace, collaborators)
}

// CanCustomizeBranding gates custom logo and banner uploads behind an
// active subscription.
func CanCustomizeBranding(status model.SubscriptionStatus) bool {
	return status.IsActive()
}
