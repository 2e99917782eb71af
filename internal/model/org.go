package model

import "time"

// Role is an organization membership role. Roles are ordered by privilege;
// at most one OWNER per organization is enforced server-side. The client
// only disables actions that would violate that invariant.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

// rolePrivilege maps roles to a comparable privilege level.
var rolePrivilege = map[Role]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// AtLeast reports whether r carries at least the privilege of other.
func (r Role) AtLeast(other Role) bool {
	return rolePrivilege[r] >= rolePrivilege[other]
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rolePrivilege[r]
	return ok
}

// Organization is a billed tenant with a seat allocation.
type Organization struct {
	// ID is the organization identifier.
	ID string `json:"id"`

	// Name is the organization display name.
	Name string `json:"name"`

	// Plan is the billing plan identifier (e.g., "free", "pro").
	Plan string `json:"plan"`

	// Seats is the number of seats included in the plan.
	Seats int `json:"seats"`

	// SeatsUsed is the number of seats currently occupied.
	SeatsUsed int `json:"seats_used"`

	// CreatedAt is when the organization was created.
	CreatedAt time.Time `json:"created_at"`
}

// SeatsAvailable returns the number of unoccupied seats, never negative.
func (o *Organization) SeatsAvailable() int {
	if o.SeatsUsed >= o.Seats {
		return 0
	}
	return o.Seats - o.SeatsUsed
}

// Member is a user's membership in an organization.
type Member struct {
	// UserID identifies the member's user account.
	UserID string `json:"user_id"`

	// Email is the member's account email.
	Email string `json:"email"`

	// Name is the member's display name.
	Name string `json:"name"`

	// Role is the member's organization role.
	Role Role `json:"role"`

	// JoinedAt is when the membership was created.
	JoinedAt time.Time `json:"joined_at"`
}

// InviteTTL is how long a pending invite remains redeemable.
const InviteTTL = 7 * 24 * time.Hour

// Invite is a pending invitation to join an organization.
type Invite struct {
	// ID is the invite identifier.
	ID string `json:"id"`

	// Email is the invited address.
	Email string `json:"email"`

	// Role is the role the invitee will receive on acceptance.
	Role Role `json:"role"`

	// CreatedAt is when the invite was issued (or last resent).
	CreatedAt time.Time `json:"created_at"`
}

// ExpiresAt returns the invite's expiry time.
func (i *Invite) ExpiresAt() time.Time {
	return i.CreatedAt.Add(InviteTTL)
}

// Expired reports whether the invite has passed its expiry at the given time.
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt())
}

// AuditLogEntry is a single organization audit event.
type AuditLogEntry struct {
	// ID is the audit entry identifier.
	ID string `json:"id"`

	// ActorEmail is who performed the action.
	ActorEmail string `json:"actor_email"`

	// Action is the machine-readable action name (e.g., "member.remove").
	Action string `json:"action"`

	// Detail is the human-readable description.
	Detail string `json:"detail"`

	// CreatedAt is when the action occurred.
	CreatedAt time.Time `json:"created_at"`
}
