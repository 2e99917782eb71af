package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/compose"
	"github.com/easemail/easemail/internal/inbox"
	"github.com/easemail/easemail/internal/keys"
	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/internal/store"
	appsync "github.com/easemail/easemail/internal/sync"
	"github.com/easemail/easemail/internal/ui"
	"github.com/easemail/easemail/internal/ui/composeform"
	"github.com/easemail/easemail/internal/ui/detail"
	helpview "github.com/easemail/easemail/internal/ui/help"
	"github.com/easemail/easemail/internal/ui/maillist"
	"github.com/easemail/easemail/internal/ui/orgadmin"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewCompose
	ViewOrgAdmin
	ViewHelp
)

// folderCycle is the order the folder keys step through.
var folderCycle = []model.Folder{
	model.FolderInbox,
	model.FolderStarred,
	model.FolderSnoozed,
	model.FolderDrafts,
	model.FolderSent,
	model.FolderArchive,
	model.FolderSpam,
	model.FolderTrash,
}

// pickKind is the pending choice a move or label key has opened.
type pickKind int

const (
	pickNone pickKind = iota
	pickFolder
	pickLabel
)

// labelsLoadedMsg carries the label list for the label picker.
type labelsLoadedMsg struct {
	labels []model.Label
	err    error
}

// actionDoneMsg reports a completed single or bulk mutation.
type actionDoneMsg struct {
	verb   string
	err    error
	result *inbox.BulkResult
}

// classifiedMsg signals that visible messages have been classified and
// the list should re-render category badges.
type classifiedMsg struct {
	err error
}

// optionsLoadedMsg carries templates and signatures for the composer.
type optionsLoadedMsg struct {
	templates  []model.Template
	signatures []model.Signature
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and the inbox engine.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	cfg    *model.AppConfig
	client *api.Client
	cache  store.Store

	inboxStore *inbox.Store
	selection  *inbox.Selection
	dispatcher *inbox.Dispatcher
	classifier *inbox.Classifier
	monitor    *inbox.Monitor
	expander   *inbox.ThreadExpander
	poller     *appsync.Poller
	composer   *compose.Composer
	autosaver  *compose.Autosaver

	mailList    maillist.Model
	detailView  detail.Model
	composeView composeform.Model
	helpView    helpview.Model
	orgView     orgadmin.Model
	hasOrgView  bool

	folderIndex      int
	categoryFilter   model.Category
	pickMode         pickKind
	pickTargets      []string
	labels           []model.Label
	ready            bool
	notice           string
	authErrorMessage string
}

// New wires the inbox engine and views for the default account.
func New(cfg *model.AppConfig, client *api.Client, cache store.Store) Model {
	k := keys.DefaultKeyMap()

	account := cfg.DefaultAccount()
	accountID := ""
	if account != nil {
		accountID = account.ID
	}

	inboxStore := inbox.NewStore(client, accountID, model.FolderInbox, cfg.Inbox.PageSize)
	selection := inbox.NewSelection()
	dispatcher := inbox.NewDispatcher(client, inboxStore)
	classifier := inbox.NewClassifier(client, cache)
	inboxStore.SetCategorySource(classifier.Lookup)
	expander := inbox.NewThreadExpander(client)

	monitor := inbox.NewMonitor(
		func() model.NotificationPrefs {
			prefs, err := cache.GetNotificationPrefs(context.Background())
			if err != nil {
				return model.DefaultNotificationPrefs()
			}
			return prefs
		},
		func() bool { return true },
		&notificationRecorder{cache: cache},
	)

	undoDelay := time.Duration(cfg.Inbox.UndoSendSec) * time.Second
	composer := compose.New(client, undoDelay)
	autosaver := compose.NewAutosaver(
		client,
		time.Duration(cfg.Inbox.AutosaveIntervalSec)*time.Second,
	)

	poller := appsync.New(
		client,
		cache,
		time.Duration(cfg.Inbox.RefreshIntervalSec)*time.Second,
	)
	for _, acct := range cfg.Accounts {
		poller.RegisterAccount(acct, cfg.Inbox.PageSize)
	}

	return Model{
		currentView: ViewList,
		keys:        k,
		cfg:         cfg,
		client:      client,
		cache:       cache,
		inboxStore:  inboxStore,
		selection:   selection,
		dispatcher:  dispatcher,
		classifier:  classifier,
		monitor:     monitor,
		expander:    expander,
		poller:      poller,
		composer:    composer,
		autosaver:   autosaver,
		mailList:    maillist.New(inboxStore, selection, classifier.Lookup, k, 80, 24),
		detailView:  detail.New(expander, client, k, 80, 24),
		composeView: composeform.New(composer, autosaver, undoDelay, 80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
}

// notificationRecorder persists fired notifications to the local store.
type notificationRecorder struct {
	cache store.Store
}

func (r *notificationRecorder) RecordNotification(n model.Notification) error {
	return r.cache.CreateNotification(context.Background(), n)
}

// Init loads the first inbox page and starts the background refresh and
// draft autosave loops.
func (m Model) Init() tea.Cmd {
	go m.autosaver.Run(context.Background())
	return tea.Batch(
		m.mailList.Init(),
		m.poller.Start(),
		m.loadComposeOptions(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.mailList.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.composeView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		if m.hasOrgView {
			m.orgView.SetSize(w, h)
		}
		return m.updateActiveView(msg)

	case appsync.RefreshResultMsg:
		return m.handleRefreshResult(msg)

	case maillist.RefreshedMsg:
		if msg.Err != nil {
			m.notice = "refresh failed: " + msg.Err.Error()
		}
		var cmd tea.Cmd
		m.mailList, cmd = m.mailList.Update(msg)
		return m, tea.Batch(cmd, m.classifyVisible())

	case classifiedMsg:
		if msg.err == nil {
			m.mailList.Rebuild()
		}
		return m, nil

	case maillist.OpenMessageMsg:
		return m.openMessage(msg)

	case detail.BackMsg:
		m.currentView = ViewList
		m.inboxStore.SetOpen("")
		return m, nil

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case optionsLoadedMsg:
		m.composeView.SetOptions(msg.templates, msg.signatures)
		return m, nil

	case labelsLoadedMsg:
		if msg.err != nil {
			m.notice = "loading labels failed: " + msg.err.Error()
			return m, nil
		}
		if len(msg.labels) == 0 {
			m.notice = "no labels defined"
			return m, nil
		}
		m.labels = msg.labels
		m.pickMode = pickLabel
		return m, nil

	case composeform.SentMsg:
		m.currentView = ViewList
		if msg.Err != nil {
			m.notice = "send failed: " + msg.Err.Error()
		} else {
			m.notice = "message sent"
		}
		return m, nil

	case composeform.UndoneMsg:
		m.notice = "send cancelled"
		return m, nil

	case composeform.ScheduledMsg:
		m.currentView = ViewList
		if msg.Err != nil {
			m.notice = "schedule failed: " + msg.Err.Error()
		} else {
			m.notice = "scheduled for " + msg.Scheduled.SendAt.Format("Jan 2 15:04")
		}
		return m, nil

	case composeform.CancelMsg:
		m.currentView = ViewList
		return m, m.saveDraftOnExit()

	case orgadmin.BackMsg:
		m.currentView = ViewList
		return m, nil

	case tea.KeyMsg:
		return m.handleGlobalKeys(msg)
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys routes keys that work across views, then per-view
// action keys, then delegates the rest.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.poller.Stop()
		m.autosaver.Stop()
		return m, tea.Quit

	case "q":
		if m.currentView == ViewList && !m.mailList.Searching() {
			m.poller.Stop()
			m.autosaver.Stop()
			return m, tea.Quit
		}

	case "?":
		if m.currentView == ViewCompose {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	}

	if m.currentView == ViewList && !m.mailList.Searching() {
		if m.pickMode != pickNone {
			return m.handlePick(msg)
		}
		if handled, model, cmd := m.handleListActions(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleListActions processes mutation and navigation keys on the list
// view. Bulk variants run when a visible selection exists.
func (m Model) handleListActions(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	targets := m.actionTargets()

	switch msg.String() {
	case "u":
		if len(targets) > 1 {
			return true, m, m.bulkCmd("mark read", func(ctx context.Context) *inbox.BulkResult {
				return m.dispatcher.BulkMarkRead(ctx, targets)
			})
		}
		if len(targets) == 1 {
			return true, m, m.singleCmd("read toggle", func(ctx context.Context) error {
				return m.dispatcher.ToggleRead(ctx, targets[0])
			})
		}

	case "s":
		if len(targets) > 1 {
			return true, m, m.bulkCmd("star", func(ctx context.Context) *inbox.BulkResult {
				return m.dispatcher.BulkStar(ctx, targets)
			})
		}
		if len(targets) == 1 {
			return true, m, m.singleCmd("star toggle", func(ctx context.Context) error {
				return m.dispatcher.ToggleStar(ctx, targets[0])
			})
		}

	case "e":
		if len(targets) > 1 {
			return true, m, m.bulkCmd("archive", func(ctx context.Context) *inbox.BulkResult {
				return m.dispatcher.BulkArchive(ctx, targets)
			})
		}
		if len(targets) == 1 {
			return true, m, m.singleCmd("archive", func(ctx context.Context) error {
				return m.dispatcher.Archive(ctx, targets[0])
			})
		}

	case "#", "backspace":
		_, folder := m.inboxStore.View()
		permanent := folder == model.FolderTrash
		if len(targets) > 1 {
			return true, m, m.bulkCmd("delete", func(ctx context.Context) *inbox.BulkResult {
				return m.dispatcher.BulkDelete(ctx, targets, permanent)
			})
		}
		if len(targets) == 1 {
			return true, m, m.singleCmd("delete", func(ctx context.Context) error {
				return m.dispatcher.Delete(ctx, targets[0], permanent)
			})
		}

	case "!":
		if len(targets) == 1 {
			return true, m, m.singleCmd("report spam", func(ctx context.Context) error {
				return m.dispatcher.ReportSpam(ctx, targets[0])
			})
		}

	case "z":
		if len(targets) == 1 {
			until := nextMorning(time.Now())
			return true, m, m.singleCmd("snooze", func(ctx context.Context) error {
				return m.dispatcher.Snooze(ctx, targets[0], until)
			})
		}

	case "m":
		if len(targets) > 0 {
			m.pickMode = pickFolder
			m.pickTargets = targets
			return true, m, nil
		}

	case "l":
		if len(targets) > 0 {
			m.pickTargets = targets
			if len(m.labels) > 0 {
				m.pickMode = pickLabel
				return true, m, nil
			}
			return true, m, m.loadLabels()
		}

	case "c":
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return true, m, m.composeView.StartCompose(m.accountID())

	case "r":
		if current, ok := m.mailList.Current(); ok {
			m.previousView = m.currentView
			m.currentView = ViewCompose
			return true, m, m.composeView.StartReplyDraft(m.accountID(), current)
		}

	case "R":
		m.poller.RefreshAccount(m.accountID())
		return true, m, m.mailList.FetchCmd()

	case "[":
		return true, m, m.switchFolder(-1)

	case "]":
		return true, m, m.switchFolder(1)

	case "1":
		return true, m, m.toggleCategory(model.CategoryPeople)

	case "2":
		return true, m, m.toggleCategory(model.CategoryNewsletters)

	case "3":
		return true, m, m.toggleCategory(model.CategoryNotifications)

	case "O":
		return m.openOrgAdmin()
	}

	return false, m, nil
}

// handlePick consumes the digit choice for a pending move or label.
func (m Model) handlePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()
	if s == "esc" {
		m.pickMode = pickNone
		m.pickTargets = nil
		return m, nil
	}
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return m, nil
	}

	idx := int(s[0] - '1')
	targets := m.pickTargets
	mode := m.pickMode
	m.pickMode = pickNone
	m.pickTargets = nil

	switch mode {
	case pickFolder:
		if idx >= len(folderCycle) {
			return m, nil
		}
		folder := folderCycle[idx]
		return m, m.bulkCmd("moved", func(ctx context.Context) *inbox.BulkResult {
			return m.dispatcher.BulkMoveToFolder(ctx, targets, folder)
		})

	case pickLabel:
		if idx >= len(m.labels) {
			return m, nil
		}
		labelID := m.labels[idx].ID
		return m, m.bulkCmd("labeled", func(ctx context.Context) *inbox.BulkResult {
			return m.dispatcher.BulkApplyLabel(ctx, targets, labelID)
		})
	}

	return m, nil
}

// loadLabels fetches the label list once, then opens the picker.
func (m Model) loadLabels() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		labels, err := client.ListLabels(context.Background())
		return labelsLoadedMsg{labels: labels, err: err}
	}
}

// actionTargets returns the ids an action applies to: the visible
// selection when non-empty, otherwise the message under the cursor.
func (m Model) actionTargets() []string {
	visible := m.selection.Visible(m.inboxStore.DisplayedIDs())
	if len(visible) > 0 {
		return visible
	}
	if current, ok := m.mailList.Current(); ok {
		return []string{current.ID}
	}
	return nil
}

// singleCmd runs one mutation off the UI goroutine.
func (m Model) singleCmd(verb string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(context.Background())
		return actionDoneMsg{verb: verb, err: err}
	}
}

// bulkCmd runs a bulk mutation off the UI goroutine.
func (m Model) bulkCmd(verb string, fn func(ctx context.Context) *inbox.BulkResult) tea.Cmd {
	return func() tea.Msg {
		result := fn(context.Background())
		return actionDoneMsg{verb: verb, result: result}
	}
}

// handleActionDone surfaces the outcome and re-renders the list.
func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.result != nil:
		m.notice = msg.result.Summary(msg.verb)
		m.selection.Prune(m.inboxStore.DisplayedIDs())
	case msg.err != nil:
		m.notice = msg.verb + " failed: " + msg.err.Error()
	default:
		m.notice = msg.verb + " done"
	}
	m.mailList.Rebuild()
	return m, nil
}

// handleRefreshResult applies a background refresh: new-mail detection
// runs on the snapshot, and the visible list reloads when it shows the
// refreshed account's inbox.
func (m Model) handleRefreshResult(msg appsync.RefreshResultMsg) (tea.Model, tea.Cmd) {
	waitCmd := m.poller.WaitForNextResult()

	if msg.AuthError != nil {
		m.authErrorMessage = msg.AuthError.Message
		return m, waitCmd
	}
	if msg.Error != nil {
		return m, waitCmd
	}
	m.authErrorMessage = ""

	if msg.AccountID == m.accountID() {
		if event := m.monitor.Observe(msg.Messages); event != nil {
			m.notice = m.monitor.Title(event)
		}
	}

	accountID, folder := m.inboxStore.View()
	if m.currentView == ViewList &&
		accountID == msg.AccountID &&
		folder == msg.Folder &&
		!m.inboxStore.SearchActive() {
		return m, tea.Batch(waitCmd, m.mailList.FetchCmd())
	}

	return m, waitCmd
}

// openMessage expands the thread and marks the message read.
func (m Model) openMessage(msg maillist.OpenMessageMsg) (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewDetail
	m.inboxStore.SetOpen(msg.MessageID)

	cmds := []tea.Cmd{m.detailView.Open(msg.MessageID, msg.ThreadID)}

	if summary, ok := m.inboxStore.Get(msg.MessageID); ok && summary.Unread {
		cmds = append(cmds, m.singleCmd("mark read", func(ctx context.Context) error {
			return m.dispatcher.ToggleRead(ctx, msg.MessageID)
		}))
	}

	return m, tea.Batch(cmds...)
}

// openOrgAdmin builds the admin view lazily; it needs the caller's
// membership to gate actions client-side.
func (m Model) openOrgAdmin() (bool, tea.Model, tea.Cmd) {
	account := m.cfg.DefaultAccount()
	if account == nil {
		m.notice = "no account configured"
		return true, m, nil
	}

	// The member listing includes the caller's own row; until it loads,
	// gate as the lowest privilege.
	actor := model.Member{Email: account.Email, Role: model.RoleViewer}
	if m.hasOrgView {
		m.previousView = m.currentView
		m.currentView = ViewOrgAdmin
		return true, m, m.orgView.LoadCmd()
	}

	m.orgView = orgadmin.New(
		m.client, account.OrgID, actor, m.keys,
		m.layout.ContentWidth(), m.layout.ContentHeight(),
	)
	m.hasOrgView = true
	m.previousView = m.currentView
	m.currentView = ViewOrgAdmin
	return true, m, m.orgView.Init()
}

// switchFolder steps through the folder cycle and refetches.
func (m *Model) switchFolder(delta int) tea.Cmd {
	m.folderIndex = (m.folderIndex + delta + len(folderCycle)) % len(folderCycle)
	m.inboxStore.SetView(m.accountID(), folderCycle[m.folderIndex])
	m.selection.Clear()
	return m.mailList.FetchCmd()
}

// toggleCategory flips a category filter on the inbox view. Pressing
// the active filter's key again clears it.
func (m *Model) toggleCategory(cat model.Category) tea.Cmd {
	if m.categoryFilter == cat {
		cat = ""
	}
	m.categoryFilter = cat
	m.inboxStore.SetCategoryFilter(cat)
	m.mailList.Rebuild()
	return m.classifyVisible()
}

// classifyVisible ensures every displayed message has a cached category.
func (m Model) classifyVisible() tea.Cmd {
	classifier := m.classifier
	ids := m.inboxStore.DisplayedIDs()
	return func() tea.Msg {
		err := classifier.EnsureClassified(context.Background(), ids)
		return classifiedMsg{err: err}
	}
}

// loadComposeOptions fetches templates and signatures once at startup.
func (m Model) loadComposeOptions() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		templates, err := client.ListTemplates(context.Background())
		if err != nil {
			templates = nil
		}
		signatures, err := client.ListSignatures(context.Background())
		if err != nil {
			signatures = nil
		}
		return optionsLoadedMsg{templates: templates, signatures: signatures}
	}
}

// saveDraftOnExit persists the in-progress draft when the composer is
// abandoned.
func (m Model) saveDraftOnExit() tea.Cmd {
	autosaver := m.autosaver
	return func() tea.Msg {
		_ = autosaver.Save(context.Background())
		return nil
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.mailList, cmd = m.mailList.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewOrgAdmin:
		m.orgView, cmd = m.orgView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	_, folder := m.inboxStore.View()
	headerTitle := "EaseMail: " + string(folder)
	if n := m.selection.Len(); n > 0 {
		headerTitle = fmt.Sprintf("%s [%d selected]", headerTitle, n)
	}

	header := m.layout.RenderHeader(headerTitle, m.refreshStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.mailList.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewCompose:
		return m.composeView.View()
	case ViewOrgAdmin:
		return m.orgView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// refreshStatus returns a short string describing the background refresh.
func (m Model) refreshStatus() string {
	statuses := m.poller.GetStatuses()
	if len(statuses) == 0 {
		return "offline"
	}

	running := 0
	errCount := 0
	for _, s := range statuses {
		switch s.State {
		case appsync.RefreshRunning:
			running++
		case appsync.RefreshError:
			errCount++
		}
	}

	if running > 0 {
		return "refreshing"
	}
	if errCount > 0 {
		return "⚠ unreachable"
	}
	return "idle"
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.currentView == ViewList && m.pickMode != pickNone {
		return m.pickHints()
	}
	if m.authErrorMessage != "" && m.currentView == ViewList {
		return m.authErrorMessage
	}
	if m.notice != "" && m.currentView == ViewList {
		return m.notice
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | r reply | j/k scroll"
	case ViewCompose:
		return "enter submit | esc cancel"
	case ViewOrgAdmin:
		return "i invite | d remove | p promote | o transfer | a audit | esc back"
	default:
		return "q quit | ? help | c compose | / search | x select | [/] folder | 1/2/3 category"
	}
}

// pickHints enumerates the pending picker's numbered choices.
func (m Model) pickHints() string {
	var b strings.Builder
	if m.pickMode == pickFolder {
		b.WriteString("move to:")
		for i, folder := range folderCycle {
			fmt.Fprintf(&b, " %d %s", i+1, folder)
		}
	} else {
		b.WriteString("label:")
		for i, label := range m.labels {
			if i == 9 {
				break
			}
			fmt.Fprintf(&b, " %d %s", i+1, label.Name)
		}
	}
	b.WriteString(" | esc cancel")
	return b.String()
}

// accountID returns the active account's identifier.
func (m Model) accountID() string {
	id, _ := m.inboxStore.View()
	return id
}

// nextMorning returns 8am local time on the following day, the default
// snooze target.
func nextMorning(now time.Time) time.Time {
	next := now.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 8, 0, 0, 0, now.Location())
}
