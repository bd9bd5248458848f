package policy

import (
	"inkwell/internal/models"
)

// InitialCommentStatus returns the status a new comment is born with.
// Content-team roles skip moderation; everyone else (subscribers and
// guests) starts pending.
func InitialCommentStatus(actor Actor) models.CommentStatus {
	if !actor.Anonymous() && actor.Role.AtLeast(models.RoleAuthor) {
		return models.CommentStatusApproved
	}
	return models.CommentStatusPending
}

// VisibleCommentStatuses lists the comment statuses the actor may read.
// Moderators see the full queue; the public sees approved comments only.
func VisibleCommentStatuses(actor Actor) []models.CommentStatus {
	if actor.Role.AtLeast(models.RoleEditor) {
		return []models.CommentStatus{
			models.CommentStatusPending,
			models.CommentStatusApproved,
			models.CommentStatusSpam,
			models.CommentStatusTrash,
		}
	}
	return []models.CommentStatus{models.CommentStatusApproved}
}

// CanModerateComments reports whether actor may change comment statuses.
func CanModerateComments(actor Actor) bool {
	return Allows(actor, OpCommentModerate, actor.ID)
}

// CommentTransition is the resolved plan for one moderation move:
// whether it is legal and how the parent post's comments_count shifts.
type CommentTransition struct {
	Allowed      bool
	Reason       string
	CounterDelta int
}

// EvaluateCommentTransition applies the one-way approval rule. Approval
// from any hidden status counts the comment exactly once; an approved
// comment can only leave via trash, which uncounts it. Moves between the
// hidden statuses never touch the counter, and repeating the current
// status is a no-op.
func EvaluateCommentTransition(current, next models.CommentStatus) CommentTransition {
	if current == next {
		return CommentTransition{Allowed: true}
	}
	switch {
	case next == models.CommentStatusApproved:
		return CommentTransition{Allowed: true, CounterDelta: 1}
	case current == models.CommentStatusApproved && next == models.CommentStatusTrash:
		return CommentTransition{Allowed: true, CounterDelta: -1}
	case current == models.CommentStatusApproved:
		return CommentTransition{
			Reason: "approved comments cannot return to " + string(next),
		}
	default:
		return CommentTransition{Allowed: true}
	}
}

// CommentRemovalDelta is the comments_count change when a comment row is
// removed outright. Only approved comments were ever counted.
func CommentRemovalDelta(status models.CommentStatus) int {
	if status == models.CommentStatusApproved {
		return -1
	}
	return 0
}

// ownerOf returns the owning user ID for permission checks; guest comments
// have no owner and only ScopeAny roles may touch them.
func ownerOf(comment *models.Comment) uint {
	if comment.UserID == nil {
		return 0
	}
	return *comment.UserID
}

// CanEditComment decides whether actor may edit the comment's content.
func CanEditComment(actor Actor, comment *models.Comment) bool {
	owner := ownerOf(comment)
	if owner == 0 {
		return ScopeFor(actor, OpCommentUpdate) == ScopeAny
	}
	return Allows(actor, OpCommentUpdate, owner)
}

// CanDeleteComment decides whether actor may remove the comment.
func CanDeleteComment(actor Actor, comment *models.Comment) bool {
	owner := ownerOf(comment)
	if owner == 0 {
		return ScopeFor(actor, OpCommentDelete) == ScopeAny
	}
	return Allows(actor, OpCommentDelete, owner)
}
