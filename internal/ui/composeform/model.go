package composeform

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/compose"
	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/internal/theme"
)

// SentMsg is dispatched when the undo window has elapsed and the send
// request completed.
type SentMsg struct {
	Err error
}

// UndoneMsg is dispatched when the user cancelled within the undo window.
type UndoneMsg struct{}

// CancelMsg is dispatched when the user abandons the composition.
type CancelMsg struct{}

// ScheduledMsg is dispatched when the draft was queued for later delivery.
type ScheduledMsg struct {
	Scheduled *model.ScheduledEmail
	Err       error
}

// RemixedMsg carries an AI-rewritten body back into the form.
type RemixedMsg struct {
	Result *api.RemixResult
	Err    error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	to       string
	cc       string
	bcc      string
	subject  string
	body     string
	template string
	sendAt   string
}

// Model is the Bubble Tea model for the message composition form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	composer   *compose.Composer
	autosaver  *compose.Autosaver
	accountID  string
	templates  []model.Template
	signatures []model.Signature

	pending   *compose.PendingSend
	pendingAt time.Time
	undoDelay time.Duration

	validationErr string
	width         int
	height        int
}

// New creates a new composition form model.
func New(
	composer *compose.Composer,
	autosaver *compose.Autosaver,
	undoDelay time.Duration,
	width, height int,
) Model {
	return Model{
		fb:        &formBindings{},
		composer:  composer,
		autosaver: autosaver,
		undoDelay: undoDelay,
		width:     width,
		height:    height,
	}
}

// SetOptions sets the available templates and signatures for the form.
func (m *Model) SetOptions(templates []model.Template, signatures []model.Signature) {
	m.templates = templates
	m.signatures = signatures
}

// StartCompose initializes the form for a fresh message.
func (m *Model) StartCompose(accountID string) tea.Cmd {
	m.accountID = accountID
	*m.fb = formBindings{}
	m.pending = nil
	m.validationErr = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartReplyDraft initializes the form pre-filled from a message being
// replied to.
func (m *Model) StartReplyDraft(accountID string, original model.MessageSummary) tea.Cmd {
	m.accountID = accountID
	*m.fb = formBindings{
		to:      original.Sender().Email,
		subject: replySubject(original.Subject),
	}
	m.pending = nil
	m.validationErr = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the composition form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RemixedMsg:
		if msg.Err == nil && msg.Result != nil {
			m.fb.body = msg.Result.Remixed
			if msg.Result.SuggestedSubject != "" && m.fb.subject == "" {
				m.fb.subject = msg.Result.SuggestedSubject
			}
		}
		return m, nil

	case tickMsg:
		if m.pending != nil {
			return m, tickCmd()
		}
		return m, nil

	case tea.KeyMsg:
		if m.pending != nil {
			if msg.String() == "esc" || msg.String() == "u" {
				if m.pending.Cancel() {
					m.pending = nil
					return m, func() tea.Msg { return UndoneMsg{} }
				}
			}
			return m, nil
		}
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	m.autosaver.Update(m.draft())

	if m.form.State == huh.StateCompleted {
		return m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the composition form or the undo-send countdown.
func (m Model) View() string {
	if m.pending != nil {
		remaining := time.Until(m.pendingAt.Add(m.undoDelay)).Round(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(fmt.Sprintf(
				"Sending in %s...\n\n%s",
				remaining,
				theme.HelpStyle.Render("press u or esc to undo"),
			))
	}

	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Compose") + "\n" + m.form.View()
	if m.validationErr != "" {
		content += "\n" + lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(m.validationErr)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// RemixCmd returns a command that rewrites the current body in the
// requested tone.
func (m Model) RemixCmd(tone string) tea.Cmd {
	composer := m.composer
	body := m.fb.body
	return func() tea.Msg {
		result, err := composer.Remix(context.Background(), body, tone)
		return RemixedMsg{Result: result, Err: err}
	}
}

// draft builds the current draft from form state.
func (m Model) draft() model.Draft {
	d := m.autosaver.Draft()
	d.AccountID = m.accountID
	d.To = m.fb.to
	d.Cc = m.fb.cc
	d.Bcc = m.fb.bcc
	d.Subject = m.fb.subject
	d.Body = m.fb.body
	return d
}

// handleSubmit starts the undo-send countdown, or schedules the draft
// when a send-at time was provided.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	draft := m.draft()

	if tpl := m.selectedTemplate(); tpl != nil {
		draft = compose.ApplyTemplate(draft, *tpl)
	}
	if len(m.signatures) > 0 {
		draft = compose.ApplySignature(draft, m.signatures[0])
	}

	if m.fb.sendAt != "" {
		sendAt, err := time.ParseInLocation("2006-01-02 15:04", m.fb.sendAt, time.Local)
		if err != nil {
			return m.rejectSubmit("invalid send time, use YYYY-MM-DD HH:MM")
		}
		composer := m.composer
		return m, func() tea.Msg {
			scheduled, err := composer.Schedule(context.Background(), draft, sendAt)
			return ScheduledMsg{Scheduled: scheduled, Err: err}
		}
	}

	pending, err := m.composer.Send(context.Background(), draft)
	if err != nil {
		var vErr *compose.ValidationError
		if errors.As(err, &vErr) {
			return m.rejectSubmit(vErr.Error())
		}
		return m.rejectSubmit(err.Error())
	}

	m.pending = pending
	m.pendingAt = time.Now()
	return m, tea.Batch(m.waitForOutcome(), tickCmd())
}

// rejectSubmit reopens the form with a validation message.
func (m Model) rejectSubmit(msg string) (Model, tea.Cmd) {
	m.validationErr = msg
	m.form = m.buildForm()
	return m, m.form.Init()
}

// waitForOutcome returns a command that blocks on the pending send's
// outcome channel.
func (m Model) waitForOutcome() tea.Cmd {
	pending := m.pending
	return func() tea.Msg {
		outcome := <-pending.Done()
		if outcome.Cancelled {
			return UndoneMsg{}
		}
		return SentMsg{Err: outcome.Err}
	}
}

// tickMsg drives the countdown display while a send is pending.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Pending reports whether an undo-send countdown is in progress.
func (m Model) Pending() bool {
	return m.pending != nil
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("To").
			Placeholder("alice@example.com, bob@example.com").
			Value(&m.fb.to),
		huh.NewInput().
			Title("Cc").
			Value(&m.fb.cc),
		huh.NewInput().
			Title("Bcc").
			Value(&m.fb.bcc),
		huh.NewInput().
			Title("Subject").
			Value(&m.fb.subject),
		huh.NewText().
			Title("Body").
			Value(&m.fb.body),
	}

	if tplField := m.templateField(); tplField != nil {
		fields = append(fields, tplField)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Send at").
			Placeholder("YYYY-MM-DD HH:MM (optional, schedules instead of sending)").
			Value(&m.fb.sendAt),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) templateField() huh.Field {
	if len(m.templates) == 0 {
		return nil
	}
	opts := []huh.Option[string]{
		huh.NewOption("None", ""),
	}
	for _, t := range m.templates {
		opts = append(opts, huh.NewOption(t.Name, t.ID))
	}
	return huh.NewSelect[string]().
		Title("Template").
		Options(opts...).
		Value(&m.fb.template)
}

func (m Model) selectedTemplate() *model.Template {
	if m.fb.template == "" {
		return nil
	}
	for i := range m.templates {
		if m.templates[i].ID == m.fb.template {
			return &m.templates[i]
		}
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// replySubject prefixes "Re: " once.
func replySubject(subject string) string {
	if len(subject) >= 4 && (subject[:4] == "Re: " || subject[:4] == "RE: ") {
		return subject
	}
	return "Re: " + subject
}
