// Package org implements the client-side rules of the organization admin
// surface. The server (and its row-level security) is the authority for
// every invariant, including "at most one OWNER per organization"; this
// package only decides which actions the UI offers, mirroring what the
// server would reject anyway.
package org

import (
	"time"

	"github.com/easemail/easemail/internal/model"
)

// CanRemoveMember reports whether actor may remove target. The OWNER row
// never shows a remove action; admins may remove members and viewers but
// not other admins; members and viewers remove nobody.
func CanRemoveMember(actor, target model.Member) bool {
	if target.Role == model.RoleOwner {
		return false
	}
	if actor.UserID == target.UserID {
		return false
	}
	switch actor.Role {
	case model.RoleOwner:
		return true
	case model.RoleAdmin:
		return !target.Role.AtLeast(model.RoleAdmin)
	default:
		return false
	}
}

// CanChangeRole reports whether actor may set target's role to newRole.
// Nobody is promoted to OWNER through a role change (that is what
// transfer-ownership is for), the OWNER row's role is immutable, and an
// actor can only grant roles below their own.
func CanChangeRole(actor, target model.Member, newRole model.Role) bool {
	if !newRole.Valid() || newRole == model.RoleOwner {
		return false
	}
	if target.Role == model.RoleOwner {
		return false
	}
	if actor.UserID == target.UserID {
		return false
	}
	if !actor.Role.AtLeast(model.RoleAdmin) {
		return false
	}
	// Admins cannot touch peers, and cannot grant their own level or above.
	if actor.Role == model.RoleAdmin {
		if target.Role.AtLeast(model.RoleAdmin) {
			return false
		}
		if newRole.AtLeast(model.RoleAdmin) {
			return false
		}
	}
	return true
}

// CanTransferOwnership reports whether actor may hand the OWNER role to
// target. Only the current owner can, and only to a different existing
// member.
func CanTransferOwnership(actor, target model.Member) bool {
	return actor.Role == model.RoleOwner && actor.UserID != target.UserID
}

// CanInvite reports whether actor may issue an invite with the given
// role. Seats must be available; the invited role follows the same cap as
// role changes (no OWNER invites; admins invite below their own level).
func CanInvite(actor model.Member, o *model.Organization, role model.Role) bool {
	if !role.Valid() || role == model.RoleOwner {
		return false
	}
	if o.SeatsAvailable() == 0 {
		return false
	}
	if !actor.Role.AtLeast(model.RoleAdmin) {
		return false
	}
	if actor.Role == model.RoleAdmin && role.AtLeast(model.RoleAdmin) {
		return false
	}
	return true
}

// CanManageInvite reports whether actor may resend or revoke invites.
func CanManageInvite(actor model.Member) bool {
	return actor.Role.AtLeast(model.RoleAdmin)
}

// CanDeleteOrganization reports whether actor may delete the organization.
func CanDeleteOrganization(actor model.Member) bool {
	return actor.Role == model.RoleOwner
}

// InviteStatus summarizes a pending invite for display.
func InviteStatus(inv model.Invite, now time.Time) string {
	if inv.Expired(now) {
		return "expired"
	}
	remaining := inv.ExpiresAt().Sub(now)
	days := int(remaining.Hours()) / 24
	if days >= 1 {
		return "pending"
	}
	return "expiring soon"
}
