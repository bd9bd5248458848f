package policy

import (
	"inkwell/internal/models"
)

// ToggleAction is what the store must do with the like row.
type ToggleAction int

const (
	// ToggleCreate inserts a new like for the target.
	ToggleCreate ToggleAction = iota
	// ToggleDelete removes the existing like (same-type repeat undoes it).
	ToggleDelete
	// ToggleRetype changes the reaction type on the existing row.
	ToggleRetype
)

// ToggleOutcome is the resolved plan for one like toggle and the
// likes_count shift it implies.
type ToggleOutcome struct {
	Action       ToggleAction
	CounterDelta int
}

// CanToggleLike reports whether actor may react to content at all.
// Reactions require an account.
func CanToggleLike(actor Actor) bool {
	return Allows(actor, OpLikeToggle, actor.ID)
}

// ResolveToggle implements the three-state toggle keyed by existence and
// type match: absent creates, same type deletes (undo), different type
// retypes in place without moving the counter. The caller must read the
// existing row and apply the outcome inside one transaction per
// (actor, target) pair, or concurrent toggles will double-count.
func ResolveToggle(existing *models.Like, requested models.LikeType) ToggleOutcome {
	switch {
	case existing == nil:
		return ToggleOutcome{Action: ToggleCreate, CounterDelta: 1}
	case existing.Type == requested:
		return ToggleOutcome{Action: ToggleDelete, CounterDelta: -1}
	default:
		return ToggleOutcome{Action: ToggleRetype}
	}
}
