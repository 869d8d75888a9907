// Package quota evaluates free-plan usage limits. All checks run before
// the store write they guard, so a denied mutation costs nothing.
package quota

import "app/internal/model"

// UpgradeNudgeThreshold is the usage percentage at which the UI should
// start suggesting an upgrade. Non-blocking.
const UpgradeNudgeThreshold = 80.0

// Evaluator holds the free-plan limits. An active subscription bypasses
// every limit.
type Evaluator struct {
	FolderLimit       int
	CollaboratorLimit int
}

// UsagePercentage converts the workspace's folder count into a 0-100+
// percentage of the free plan limit.
func (e Evaluator) UsagePercentage(folderCount int) float64 {
	if e.FolderLimit <= 0 {
		return 0
	}
	return float64(folderCount) / float64(e.FolderLimit) * 100
}

// NeedsUpgradeNudge reports whether usage is high enough to surface a
// non-blocking upgrade suggestion.
func (e Evaluator) NeedsUpgradeNudge(folderCount int, status model.SubscriptionStatus) bool {
	if status.IsActive() {
		return false
	}
	return e.UsagePercentage(folderCount) >= UpgradeNudgeThreshold
}

// CanCreateFolder reports whether one more folder may be created. At the
// limit, creation is blocked unless the subscription is active.
func (e Evaluator) CanCreateFolder(folderCount int, status model.SubscriptionStatus) bool {
	if status.IsActive() {
		return true
	}
	return folderCount < e.FolderLimit
}

// IsOverQuota reports whether the workspace has consumed its full folder
// allowance.
func (e Evaluator) IsOverQuota(folderCount int, status model.SubscriptionStatus) bool {
	if status.IsActive() {
		return false
	}
	return folderCount >= e.FolderLimit
}

// CanAddCollaborators reports whether `adding` more collaborators is
// allowed given the current count. Free plan caps shared collaborators.
func (e Evaluator) CanAddCollaborators(currentCount, adding int, status model.SubscriptionStatus) bool {
	if status.IsActive() {
		return true
	}
	return currentCount+adding <= e.CollaboratorLimit
}
