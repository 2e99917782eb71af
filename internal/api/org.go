package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/easemail/easemail/internal/model"
)

// orgPath builds the base path for an organization resource.
func orgPath(orgID string) string {
	return "/api/organizations/" + url.PathEscape(orgID)
}

// GetOrganization fetches an organization's record.
func (c *Client) GetOrganization(
	ctx context.Context,
	orgID string,
) (*model.Organization, error) {
	var org model.Organization
	if err := c.Get(ctx, orgPath(orgID), nil, &org); err != nil {
		return nil, fmt.Errorf("fetching organization %s: %w", orgID, err)
	}
	return &org, nil
}

// UpdateOrganization applies a partial update (e.g., rename).
func (c *Client) UpdateOrganization(
	ctx context.Context,
	orgID string,
	fields map[string]any,
) (*model.Organization, error) {
	var org model.Organization
	if err := c.Patch(ctx, orgPath(orgID), fields, &org); err != nil {
		return nil, fmt.Errorf("updating organization %s: %w", orgID, err)
	}
	return &org, nil
}

// DeleteOrganization deletes an organization outright.
func (c *Client) DeleteOrganization(ctx context.Context, orgID string) error {
	if err := c.Delete(ctx, orgPath(orgID)); err != nil {
		return fmt.Errorf("deleting organization %s: %w", orgID, err)
	}
	return nil
}

// ListMembers fetches an organization's members and pending invites.
func (c *Client) ListMembers(
	ctx context.Context,
	orgID string,
) ([]model.Member, []model.Invite, error) {
	var resp struct {
		Members []model.Member `json:"members"`
		Invites []model.Invite `json:"invites"`
	}
	if err := c.Get(ctx, orgPath(orgID)+"/members", nil, &resp); err != nil {
		return nil, nil, fmt.Errorf("listing members of %s: %w", orgID, err)
	}
	return resp.Members, resp.Invites, nil
}

// InviteMember creates a pending invite for the given address and role.
func (c *Client) InviteMember(
	ctx context.Context,
	orgID, email string,
	role model.Role,
) (*model.Invite, error) {
	body := map[string]string{"email": email, "role": string(role)}
	var invite model.Invite
	err := c.Post(ctx, orgPath(orgID)+"/members", body, &invite)
	if err != nil {
		return nil, fmt.Errorf("inviting %s to %s: %w", email, orgID, err)
	}
	return &invite, nil
}

// RemoveMember removes a member from the organization.
func (c *Client) RemoveMember(
	ctx context.Context,
	orgID, userID string,
) error {
	path := orgPath(orgID) + "/members?user_id=" + url.QueryEscape(userID)
	if err := c.Delete(ctx, path); err != nil {
		return fmt.Errorf("removing member %s from %s: %w", userID, orgID, err)
	}
	return nil
}

// ChangeMemberRole updates a member's role.
func (c *Client) ChangeMemberRole(
	ctx context.Context,
	orgID, userID string,
	role model.Role,
) error {
	body := map[string]string{"user_id": userID, "role": string(role)}
	err := c.Patch(ctx, orgPath(orgID)+"/members/role", body, nil)
	if err != nil {
		return fmt.Errorf(
			"changing role of %s in %s: %w", userID, orgID, err,
		)
	}
	return nil
}

// ResendInvite re-sends a pending invite, restarting its expiry window.
func (c *Client) ResendInvite(
	ctx context.Context,
	orgID, inviteID string,
) (*model.Invite, error) {
	path := orgPath(orgID) + "/invites/" + url.PathEscape(inviteID) + "/resend"
	var invite model.Invite
	if err := c.Post(ctx, path, nil, &invite); err != nil {
		return nil, fmt.Errorf("resending invite %s: %w", inviteID, err)
	}
	return &invite, nil
}

// RevokeInvite cancels a pending invite.
func (c *Client) RevokeInvite(ctx context.Context, orgID, inviteID string) error {
	path := orgPath(orgID) + "/invites/" + url.PathEscape(inviteID)
	if err := c.Delete(ctx, path); err != nil {
		return fmt.Errorf("revoking invite %s: %w", inviteID, err)
	}
	return nil
}

// TransferOwnership hands the OWNER role to another member. The server
// enforces the single-owner invariant; the current owner is demoted to
// ADMIN as part of the same operation.
func (c *Client) TransferOwnership(
	ctx context.Context,
	orgID, newOwnerUserID string,
) error {
	body := map[string]string{"user_id": newOwnerUserID}
	err := c.Post(ctx, orgPath(orgID)+"/transfer-ownership", body, nil)
	if err != nil {
		return fmt.Errorf(
			"transferring ownership of %s to %s: %w",
			orgID, newOwnerUserID, err,
		)
	}
	return nil
}

// AuditLogs fetches the organization's audit trail, newest first.
func (c *Client) AuditLogs(
	ctx context.Context,
	orgID string,
) ([]model.AuditLogEntry, error) {
	var entries []model.AuditLogEntry
	if err := c.Get(ctx, orgPath(orgID)+"/audit-logs", nil, &entries); err != nil {
		return nil, fmt.Errorf("fetching audit logs for %s: %w", orgID, err)
	}
	return entries, nil
}
