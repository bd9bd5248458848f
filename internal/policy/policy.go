// Package policy implements the visibility and content-state rules: who may
// read or change which entities, what status transitions are legal, and
// which derived fields must change alongside a write.
//
// Everything here is pure. Callers pass the acting user and an entity
// snapshot in and get a decision back; no database handles, no clocks read
// behind the caller's back, no ambient request state. Field mutations the
// engine mandates come back as Effects, and the caller must persist them in
// the same transaction as the primary write.
package policy

import (
	"inkwell/internal/models"
)

// Actor is who is performing an operation. The zero value is anonymous.
type Actor struct {
	ID   uint
	Role models.UserRole
}

// Anonymous reports whether the actor is unauthenticated.
func (a Actor) Anonymous() bool {
	return a.ID == 0
}

// Operation enumerates the guarded actions.
type Operation string

const (
	OpPostCreate      Operation = "post.create"
	OpPostUpdate      Operation = "post.update"
	OpPostDelete      Operation = "post.delete"
	OpCommentUpdate   Operation = "comment.update"
	OpCommentDelete   Operation = "comment.delete"
	OpCommentModerate Operation = "comment.moderate"
	OpCategoryManage  Operation = "category.manage"
	OpTagManage       Operation = "tag.manage"
	OpMediaManage     Operation = "media.manage"
	OpSettingManage   Operation = "setting.manage"
	OpUserManage      Operation = "user.manage"
	OpLikeToggle      Operation = "like.toggle"
)

// Scope is how far a role's permission reaches for an operation.
type Scope int

const (
	// ScopeNone denies the operation outright.
	ScopeNone Scope = iota
	// ScopeOwn allows the operation only on entities the actor owns.
	ScopeOwn
	// ScopeAny allows the operation regardless of ownership.
	ScopeAny
)

// permissions is the single authoritative (role, operation) -> scope table.
// Roles absent from an operation's row get ScopeNone, which also covers
// anonymous actors (empty role).
var permissions = map[Operation]map[models.UserRole]Scope{
	OpPostCreate: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
		models.RoleAuthor:     ScopeAny,
	},
	OpPostUpdate: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
		models.RoleAuthor:     ScopeOwn,
	},
	OpPostDelete: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
		models.RoleAuthor:     ScopeOwn,
	},
	OpCommentUpdate: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
		models.RoleAuthor:     ScopeOwn,
		models.RoleSubscriber: ScopeOwn,
	},
	OpCommentDelete: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
		models.RoleAuthor:     ScopeOwn,
		models.RoleSubscriber: ScopeOwn,
	},
	OpCommentModerate: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
	},
	OpCategoryManage: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
	},
	OpTagManage: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
	},
	OpMediaManage: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
	},
	OpSettingManage: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
	},
	OpUserManage: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
	},
	OpLikeToggle: {
		models.RoleSuperAdmin: ScopeAny,
		models.RoleAdmin:      ScopeAny,
		models.RoleEditor:     ScopeAny,
		models.RoleAuthor:     ScopeAny,
		models.RoleSubscriber: ScopeAny,
	},
}

// ScopeFor looks up the actor's scope for op.
func ScopeFor(actor Actor, op Operation) Scope {
	return permissions[op][actor.Role]
}

// Allows reports whether actor may perform op on an entity owned by
// ownerID. Operations without a meaningful owner pass the actor's own ID.
func Allows(actor Actor, op Operation, ownerID uint) bool {
	switch ScopeFor(actor, op) {
	case ScopeAny:
		return true
	case ScopeOwn:
		return !actor.Anonymous() && actor.ID == ownerID
	default:
		return false
	}
}

// Effect is one field mutation the caller must persist in the same
// transaction as the primary write. Field is the column name.
type Effect struct {
	Field string
	Value interface{}
}

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Allowed bool
	Reason  string
	Effects []Effect
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

func allow(effects ...Effect) Decision {
	return Decision{Allowed: true, Effects: effects}
}
