package orgadmin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/easemail/easemail/internal/keys"
	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/internal/org"
	"github.com/easemail/easemail/internal/theme"
)

// Service is the subset of the API client the admin view depends on.
type Service interface {
	GetOrganization(ctx context.Context, orgID string) (*model.Organization, error)
	ListMembers(ctx context.Context, orgID string) ([]model.Member, []model.Invite, error)
	InviteMember(ctx context.Context, orgID, email string, role model.Role) (*model.Invite, error)
	RemoveMember(ctx context.Context, orgID, userID string) error
	ChangeMemberRole(ctx context.Context, orgID, userID string, role model.Role) error
	ResendInvite(ctx context.Context, orgID, inviteID string) (*model.Invite, error)
	RevokeInvite(ctx context.Context, orgID, inviteID string) error
	TransferOwnership(ctx context.Context, orgID, newOwnerUserID string) error
	AuditLogs(ctx context.Context, orgID string) ([]model.AuditLogEntry, error)
}

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// LoadedMsg carries the organization, members, and pending invites.
type LoadedMsg struct {
	Org     *model.Organization
	Members []model.Member
	Invites []model.Invite
	Err     error
}

// ActionDoneMsg reports the outcome of a mutation; the view reloads on
// success.
type ActionDoneMsg struct {
	Action string
	Err    error
}

// AuditLoadedMsg carries the audit trail.
type AuditLoadedMsg struct {
	Entries []model.AuditLogEntry
	Err     error
}

// inviteBindings holds invite form values on the heap so huh pointers
// stay valid across model copies.
type inviteBindings struct {
	email string
	role  string
}

// Model is the organization administration view.
type Model struct {
	svc   Service
	keys  *keys.KeyMap
	orgID string
	actor model.Member

	org     *model.Organization
	members []model.Member
	invites []model.Invite
	audit   []model.AuditLogEntry

	cursor    int
	showAudit bool
	status    string

	inviteForm *huh.Form
	ib         *inviteBindings

	viewport viewport.Model
	width    int
	height   int
}

// New creates an org admin model acting as the given member.
func New(svc Service, orgID string, actor model.Member, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	return Model{
		svc:      svc,
		keys:     k,
		orgID:    orgID,
		actor:    actor,
		ib:       &inviteBindings{},
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Init loads the organization and member list.
func (m Model) Init() tea.Cmd {
	return m.LoadCmd()
}

// LoadCmd returns a command that fetches the org record and members.
func (m Model) LoadCmd() tea.Cmd {
	svc, orgID := m.svc, m.orgID
	return func() tea.Msg {
		o, err := svc.GetOrganization(context.Background(), orgID)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		members, invites, err := svc.ListMembers(context.Background(), orgID)
		return LoadedMsg{Org: o, Members: members, Invites: invites, Err: err}
	}
}

// Update handles messages for the org admin view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.status = "load failed: " + msg.Err.Error()
			return m, nil
		}
		m.org = msg.Org
		m.members = msg.Members
		m.invites = msg.Invites
		// The listing includes the caller; their row decides which
		// actions are offered.
		for _, member := range msg.Members {
			if m.actor.Email != "" && member.Email == m.actor.Email {
				m.actor = member
				break
			}
		}
		if m.cursor >= m.rowCount() {
			m.cursor = 0
		}
		m.refresh()
		return m, nil

	case ActionDoneMsg:
		if msg.Err != nil {
			m.status = msg.Action + " failed: " + msg.Err.Error()
			m.refresh()
			return m, nil
		}
		m.status = msg.Action + " done"
		return m, m.LoadCmd()

	case AuditLoadedMsg:
		if msg.Err != nil {
			m.status = "audit load failed: " + msg.Err.Error()
		} else {
			m.audit = msg.Entries
			m.showAudit = true
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.inviteForm != nil {
			return m.updateInviteForm(msg)
		}
		return m.handleKeys(msg)
	}

	if m.inviteForm != nil {
		mdl, cmd := m.inviteForm.Update(msg)
		if f, ok := mdl.(*huh.Form); ok {
			m.inviteForm = f
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateInviteForm drives the invite sub-form.
func (m Model) updateInviteForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.inviteForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.inviteForm = f
	}

	if m.inviteForm.State == huh.StateCompleted {
		email := strings.TrimSpace(m.ib.email)
		role := model.Role(m.ib.role)
		m.inviteForm = nil
		if email == "" {
			m.status = "invite cancelled: empty address"
			m.refresh()
			return m, nil
		}
		if !org.CanInvite(m.actor, m.org, role) {
			m.status = "you cannot invite a " + string(role) + " (role or seat limit)"
			m.refresh()
			return m, nil
		}
		svc, orgID := m.svc, m.orgID
		return m, func() tea.Msg {
			_, err := svc.InviteMember(context.Background(), orgID, email, role)
			return ActionDoneMsg{Action: "invite", Err: err}
		}
	}
	if m.inviteForm.State == huh.StateAborted {
		m.inviteForm = nil
		m.refresh()
		return m, nil
	}

	return m, cmd
}

// handleKeys processes key input in the member list.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.showAudit {
			m.showAudit = false
			m.refresh()
			return m, nil
		}
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.rowCount()-1 {
			m.cursor++
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}
		return m, nil
	}

	switch msg.String() {
	case "i":
		m.ib.email = ""
		m.ib.role = string(model.RoleMember)
		m.inviteForm = m.buildInviteForm()
		return m, m.inviteForm.Init()

	case "d":
		return m.removeSelected()

	case "p":
		return m.promoteSelected()

	case "o":
		return m.transferToSelected()

	case "a":
		svc, orgID := m.svc, m.orgID
		return m, func() tea.Msg {
			entries, err := svc.AuditLogs(context.Background(), orgID)
			return AuditLoadedMsg{Entries: entries, Err: err}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// removeSelected removes the member under the cursor, or revokes the
// invite under the cursor.
func (m Model) removeSelected() (Model, tea.Cmd) {
	svc, orgID := m.svc, m.orgID

	if member, ok := m.selectedMember(); ok {
		if !org.CanRemoveMember(m.actor, member) {
			m.status = "you cannot remove " + member.Email
			m.refresh()
			return m, nil
		}
		userID := member.UserID
		return m, func() tea.Msg {
			err := svc.RemoveMember(context.Background(), orgID, userID)
			return ActionDoneMsg{Action: "remove", Err: err}
		}
	}

	if invite, ok := m.selectedInvite(); ok {
		if !org.CanManageInvite(m.actor) {
			m.status = "you cannot revoke invites"
			m.refresh()
			return m, nil
		}
		inviteID := invite.ID
		return m, func() tea.Msg {
			err := svc.RevokeInvite(context.Background(), orgID, inviteID)
			return ActionDoneMsg{Action: "revoke", Err: err}
		}
	}

	return m, nil
}

// promoteSelected cycles the selected member's role one step up
// (VIEWER to MEMBER to ADMIN), or resends the selected invite.
func (m Model) promoteSelected() (Model, tea.Cmd) {
	svc, orgID := m.svc, m.orgID

	if member, ok := m.selectedMember(); ok {
		var next model.Role
		switch member.Role {
		case model.RoleViewer:
			next = model.RoleMember
		case model.RoleMember:
			next = model.RoleAdmin
		default:
			m.status = member.Email + " cannot be promoted further"
			m.refresh()
			return m, nil
		}
		if !org.CanChangeRole(m.actor, member, next) {
			m.status = "you cannot change the role of " + member.Email
			m.refresh()
			return m, nil
		}
		userID := member.UserID
		return m, func() tea.Msg {
			err := svc.ChangeMemberRole(context.Background(), orgID, userID, next)
			return ActionDoneMsg{Action: "role change", Err: err}
		}
	}

	if invite, ok := m.selectedInvite(); ok {
		if !org.CanManageInvite(m.actor) {
			m.status = "you cannot resend invites"
			m.refresh()
			return m, nil
		}
		inviteID := invite.ID
		return m, func() tea.Msg {
			_, err := svc.ResendInvite(context.Background(), orgID, inviteID)
			return ActionDoneMsg{Action: "resend", Err: err}
		}
	}

	return m, nil
}

// transferToSelected hands ownership to the member under the cursor.
func (m Model) transferToSelected() (Model, tea.Cmd) {
	member, ok := m.selectedMember()
	if !ok {
		return m, nil
	}
	if !org.CanTransferOwnership(m.actor, member) {
		m.status = "only the owner can transfer ownership to a member"
		m.refresh()
		return m, nil
	}
	svc, orgID, userID := m.svc, m.orgID, member.UserID
	return m, func() tea.Msg {
		err := svc.TransferOwnership(context.Background(), orgID, userID)
		return ActionDoneMsg{Action: "ownership transfer", Err: err}
	}
}

// rowCount is members plus pending invites.
func (m Model) rowCount() int {
	return len(m.members) + len(m.invites)
}

// selectedMember returns the member under the cursor, if the cursor is
// in the member section.
func (m Model) selectedMember() (model.Member, bool) {
	if m.cursor < len(m.members) {
		return m.members[m.cursor], true
	}
	return model.Member{}, false
}

// selectedInvite returns the invite under the cursor, if the cursor is
// in the invite section.
func (m Model) selectedInvite() (model.Invite, bool) {
	idx := m.cursor - len(m.members)
	if idx >= 0 && idx < len(m.invites) {
		return m.invites[idx], true
	}
	return model.Invite{}, false
}

// refresh re-renders the viewport content.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
}

// View renders the org admin view.
func (m Model) View() string {
	if m.inviteForm != nil {
		title := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite).
			MarginBottom(1).
			Render("Invite member")
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(title + "\n" + m.inviteForm.View())
	}
	return m.viewport.View()
}

// renderContent builds the member/invite or audit listing.
func (m Model) renderContent() string {
	var b strings.Builder

	if m.org != nil {
		b.WriteString(theme.HeaderStyle.Render(m.org.Name))
		b.WriteString("  ")
		b.WriteString(theme.SnippetStyle.Render(fmt.Sprintf(
			"%s plan, %d/%d seats", m.org.Plan, m.org.SeatsUsed, m.org.Seats,
		)))
		b.WriteString("\n\n")
	}

	if m.showAudit {
		b.WriteString(theme.UnreadStyle.Render("Audit log"))
		b.WriteString("\n")
		for _, e := range m.audit {
			b.WriteString(fmt.Sprintf(
				"%s  %s  %s\n",
				theme.SnippetStyle.Render(e.CreatedAt.Format("2006-01-02 15:04")),
				e.ActorEmail,
				e.Detail,
			))
		}
		if len(m.audit) == 0 {
			b.WriteString(theme.SnippetStyle.Render("no entries"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render("esc back"))
		return b.String()
	}

	now := time.Now()
	for i, member := range m.members {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		role := theme.RoleStyle(string(member.Role)).Render(string(member.Role))
		line := fmt.Sprintf("%s%s %s <%s>", cursor, role, member.Name, member.Email)
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.invites) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.UnreadStyle.Render("Pending invites"))
		b.WriteString("\n")
		for i, invite := range m.invites {
			idx := len(m.members) + i
			cursor := "  "
			if idx == m.cursor {
				cursor = "> "
			}
			status := org.InviteStatus(invite, now)
			line := fmt.Sprintf(
				"%s%s as %s (%s)",
				cursor, invite.Email, invite.Role, status,
			)
			if idx == m.cursor {
				line = theme.SelectedItemStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(
		"i invite, d remove/revoke, p promote/resend, o transfer ownership, a audit log, esc back",
	))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(theme.SnippetStyle.Render(m.status))
	}

	return b.String()
}

// buildInviteForm constructs the invite sub-form.
func (m *Model) buildInviteForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("person@company.com").
				Value(&m.ib.email),
			huh.NewSelect[string]().
				Title("Role").
				Options(
					huh.NewOption("Admin", string(model.RoleAdmin)),
					huh.NewOption("Member", string(model.RoleMember)),
					huh.NewOption("Viewer", string(model.RoleViewer)),
				).
				Value(&m.ib.role),
		),
	).WithWidth(min(m.width-4, 80))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
