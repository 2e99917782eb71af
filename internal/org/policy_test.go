package org

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/easemail/easemail/internal/model"
)

func member(id string, role model.Role) model.Member {
	return model.Member{UserID: id, Email: id + "@example.com", Role: role}
}

func TestCanRemoveMember(t *testing.T) {
	owner := member("u-owner", model.RoleOwner)
	admin := member("u-admin", model.RoleAdmin)
	admin2 := member("u-admin2", model.RoleAdmin)
	mem := member("u-member", model.RoleMember)
	viewer := member("u-viewer", model.RoleViewer)

	assert.True(t, CanRemoveMember(owner, admin))
	assert.True(t, CanRemoveMember(owner, mem))
	assert.True(t, CanRemoveMember(admin, mem))
	assert.True(t, CanRemoveMember(admin, viewer))

	// The OWNER row never shows a remove action, nor does your own row.
	assert.False(t, CanRemoveMember(owner, owner))
	assert.False(t, CanRemoveMember(admin, owner))
	assert.False(t, CanRemoveMember(admin, admin))

	// Admin peers are off limits; members and viewers remove nobody.
	assert.False(t, CanRemoveMember(admin, admin2))
	assert.False(t, CanRemoveMember(mem, viewer))
	assert.False(t, CanRemoveMember(viewer, mem))
}

func TestCanChangeRole(t *testing.T) {
	owner := member("u-owner", model.RoleOwner)
	admin := member("u-admin", model.RoleAdmin)
	admin2 := member("u-admin2", model.RoleAdmin)
	mem := member("u-member", model.RoleMember)

	assert.True(t, CanChangeRole(owner, admin, model.RoleMember))
	assert.True(t, CanChangeRole(owner, mem, model.RoleAdmin))
	assert.True(t, CanChangeRole(admin, mem, model.RoleViewer))

	// Role changes never mint an OWNER; that is transfer-ownership.
	assert.False(t, CanChangeRole(owner, admin, model.RoleOwner))
	assert.False(t, CanChangeRole(owner, owner, model.RoleAdmin))
	assert.False(t, CanChangeRole(admin, owner, model.RoleMember))

	// Admins cannot touch peers or grant their own level.
	assert.False(t, CanChangeRole(admin, admin2, model.RoleMember))
	assert.False(t, CanChangeRole(admin, mem, model.RoleAdmin))
	assert.False(t, CanChangeRole(admin, admin, model.RoleMember))

	assert.False(t, CanChangeRole(mem, mem, model.RoleViewer))
	assert.False(t, CanChangeRole(owner, mem, model.Role("SUPERUSER")))
}

func TestCanTransferOwnership(t *testing.T) {
	owner := member("u-owner", model.RoleOwner)
	admin := member("u-admin", model.RoleAdmin)

	assert.True(t, CanTransferOwnership(owner, admin))
	assert.False(t, CanTransferOwnership(owner, owner))
	assert.False(t, CanTransferOwnership(admin, owner))
	assert.False(t, CanTransferOwnership(admin, admin))
}

func TestCanInvite(t *testing.T) {
	owner := member("u-owner", model.RoleOwner)
	admin := member("u-admin", model.RoleAdmin)
	mem := member("u-member", model.RoleMember)

	open := &model.Organization{Seats: 10, SeatsUsed: 3}
	full := &model.Organization{Seats: 10, SeatsUsed: 10}

	assert.True(t, CanInvite(owner, open, model.RoleAdmin))
	assert.True(t, CanInvite(admin, open, model.RoleMember))
	assert.True(t, CanInvite(admin, open, model.RoleViewer))

	// No seats, no invites, regardless of role.
	assert.False(t, CanInvite(owner, full, model.RoleMember))

	// Admins invite below their own level only; nobody invites an OWNER.
	assert.False(t, CanInvite(admin, open, model.RoleAdmin))
	assert.False(t, CanInvite(owner, open, model.RoleOwner))
	assert.False(t, CanInvite(mem, open, model.RoleViewer))
	assert.False(t, CanInvite(owner, open, model.Role("bogus")))
}

func TestCanManageInvite(t *testing.T) {
	assert.True(t, CanManageInvite(member("u1", model.RoleOwner)))
	assert.True(t, CanManageInvite(member("u2", model.RoleAdmin)))
	assert.False(t, CanManageInvite(member("u3", model.RoleMember)))
	assert.False(t, CanManageInvite(member("u4", model.RoleViewer)))
}

func TestCanDeleteOrganization(t *testing.T) {
	assert.True(t, CanDeleteOrganization(member("u1", model.RoleOwner)))
	assert.False(t, CanDeleteOrganization(member("u2", model.RoleAdmin)))
}

func TestInviteStatus(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	fresh := model.Invite{Email: "a@example.com", CreatedAt: now.Add(-24 * time.Hour)}
	assert.Equal(t, "pending", InviteStatus(fresh, now))

	closing := model.Invite{Email: "b@example.com", CreatedAt: now.Add(-model.InviteTTL + time.Hour)}
	assert.Equal(t, "expiring soon", InviteStatus(closing, now))

	expired := model.Invite{Email: "c@example.com", CreatedAt: now.Add(-model.InviteTTL - time.Minute)}
	assert.Equal(t, "expired", InviteStatus(expired, now))
}

func TestSeatsAvailableNeverNegative(t *testing.T) {
	over := &model.Organization{Seats: 5, SeatsUsed: 7}
	assert.Zero(t, over.SeatsAvailable())

	open := &model.Organization{Seats: 5, SeatsUsed: 2}
	assert.Equal(t, 3, open.SeatsAvailable())
}
