package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/inbox"
	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/internal/store"
)

// RefreshState represents the current state of the background refresh.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshRunning
	RefreshError
)

// RefreshStatus holds the refresh state for a single account.
type RefreshStatus struct {
	AccountID string
	State     RefreshState
	LastSync  time.Time
	Error     error
}

// RefreshResultMsg is a tea.Msg sent when a background refresh completes.
// Messages holds the fresh first page of the account's inbox folder.
type RefreshResultMsg struct {
	AccountID string
	Folder    model.Folder
	Messages  []model.MessageSummary
	Error     error
	AuthError *AuthErrorMsg
}

// AuthErrorMsg is a tea.Msg sent when the API rejects the account token.
type AuthErrorMsg struct {
	AccountID string
	Message   string
}

// fetchTimeout is the maximum time allowed for a single refresh fetch.
const fetchTimeout = 30 * time.Second

// accountEntry holds a registered account and its page size.
type accountEntry struct {
	cfg      model.AccountConfig
	pageSize int
}

// Poller refreshes the inbox folder of each registered account on a
// fixed interval, caching results locally and emitting RefreshResultMsg
// messages for the UI to apply.
type Poller struct {
	svc       inbox.Service
	store     store.Store
	interval  time.Duration
	accounts  []accountEntry
	statuses  map[string]*RefreshStatus
	resultCh  chan RefreshResultMsg
	triggerCh chan string
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a Poller. Interval values at or below zero fall back to
// one minute.
func New(svc inbox.Service, s store.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Poller{
		svc:       svc,
		store:     s,
		interval:  interval,
		statuses:  make(map[string]*RefreshStatus),
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan string, 16),
		stopCh:    make(chan struct{}),
	}
}

// RegisterAccount adds an account to the refresh rotation.
func (p *Poller) RegisterAccount(cfg model.AccountConfig, pageSize int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accounts = append(p.accounts, accountEntry{cfg: cfg, pageSize: pageSize})
	p.statuses[cfg.ID] = &RefreshStatus{
		AccountID: cfg.ID,
		State:     RefreshIdle,
	}
}

// Start returns a tea.Cmd that starts the refresh goroutines and
// subscribes to results. The returned command waits on the result
// channel and returns RefreshResultMsg messages to the Bubble Tea
// runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	for _, entry := range p.accounts {
		go p.pollAccount(entry)
	}

	return p.waitForResult()
}

// Stop halts all refresh goroutines.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// RefreshAll triggers an immediate refresh of every registered account.
func (p *Poller) RefreshAll() tea.Cmd {
	p.mu.Lock()
	accounts := make([]accountEntry, len(p.accounts))
	copy(accounts, p.accounts)
	p.mu.Unlock()

	for _, entry := range accounts {
		select {
		case p.triggerCh <- entry.cfg.ID:
		default:
			// Channel full; skip to avoid blocking
		}
	}

	return nil
}

// RefreshAccount triggers an immediate refresh of a single account.
func (p *Poller) RefreshAccount(accountID string) tea.Cmd {
	select {
	case p.triggerCh <- accountID:
	default:
	}
	return nil
}

// GetStatuses returns the current refresh status of all accounts.
func (p *Poller) GetStatuses() []RefreshStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]RefreshStatus, 0, len(p.statuses))
	for _, s := range p.statuses {
		statuses = append(statuses, *s)
	}
	return statuses
}

// pollAccount runs the refresh loop for a single account.
func (p *Poller) pollAccount(entry accountEntry) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial fetch immediately
	p.fetchAndCache(entry)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetchAndCache(entry)
		case accountID := <-p.triggerCh:
			if accountID == entry.cfg.ID {
				p.fetchAndCache(entry)
			}
		}
	}
}

// fetchAndCache fetches the first inbox page for an account, writes it
// to the local cache, and sends a RefreshResultMsg on the result channel.
func (p *Poller) fetchAndCache(entry accountEntry) {
	accountID := entry.cfg.ID
	p.setStatus(accountID, RefreshRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	page, err := p.svc.ListMessages(ctx, api.ListOptions{
		AccountID: accountID,
		Folder:    model.FolderInbox,
		PageSize:  entry.pageSize,
	})

	if err != nil {
		p.setStatus(accountID, RefreshError, err)

		var authErr *api.AuthError
		if errors.As(err, &authErr) {
			p.sendResult(RefreshResultMsg{
				AccountID: accountID,
				Folder:    model.FolderInbox,
				Error:     err,
				AuthError: &AuthErrorMsg{
					AccountID: accountID,
					Message: fmt.Sprintf(
						"%s: authentication expired. Re-run login to reconnect.",
						entry.cfg.Email,
					),
				},
			})
			return
		}

		p.sendResult(RefreshResultMsg{
			AccountID: accountID,
			Folder:    model.FolderInbox,
			Error:     err,
		})
		return
	}

	if p.store != nil {
		_ = p.store.ReplaceFolder(ctx, accountID, model.FolderInbox, page.Messages)
	}

	p.setStatus(accountID, RefreshIdle, nil)
	p.sendResult(RefreshResultMsg{
		AccountID: accountID,
		Folder:    model.FolderInbox,
		Messages:  page.Messages,
	})
}

// setStatus updates the refresh status for an account.
func (p *Poller) setStatus(accountID string, state RefreshState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[accountID]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == RefreshIdle && err == nil {
		status.LastSync = time.Now()
	}
}

// sendResult sends a RefreshResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg RefreshResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. This should be called after processing a RefreshResultMsg to
// continue listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
