package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://app.easemail.io", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, 50, cfg.Inbox.PageSize)
	assert.Equal(t, 60, cfg.Inbox.RefreshIntervalSec)
	assert.Equal(t, 5, cfg.Inbox.UndoSendSec)
	assert.Equal(t, "default", cfg.Display.Theme)
	assert.Empty(t, cfg.Accounts)
}

func TestLoadConfigReadsAccountsAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://mail.corp.example
inbox:
  page_size: 25
accounts:
  - id: acct-1
    email: alice@corp.example
    org_id: org-1
  - id: acct-2
    email: alice@gmail.example
    default: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://mail.corp.example", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.Inbox.PageSize)
	// Unset keys keep their defaults.
	assert.Equal(t, 60, cfg.Inbox.RefreshIntervalSec)

	require.Len(t, cfg.Accounts, 2)
	assert.Equal(t, "org-1", cfg.Accounts[0].OrgID)

	def := cfg.DefaultAccount()
	require.NotNil(t, def)
	assert.Equal(t, "acct-2", def.ID)
}

func TestLoadConfigClampsNonPositiveValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  timeout_sec: -1
inbox:
  page_size: 0
  refresh_interval_sec: -5
  undo_send_sec: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, 50, cfg.Inbox.PageSize)
	assert.Equal(t, 60, cfg.Inbox.RefreshIntervalSec)
	assert.Equal(t, 5, cfg.Inbox.UndoSendSec)
}

func TestDefaultAccountFallsBackToFirst(t *testing.T) {
	cfg := &AppConfig{Accounts: []AccountConfig{
		{ID: "acct-1"},
		{ID: "acct-2"},
	}}
	require.NotNil(t, cfg.DefaultAccount())
	assert.Equal(t, "acct-1", cfg.DefaultAccount().ID)

	assert.Nil(t, (&AppConfig{}).DefaultAccount())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.API.BaseURL = "https://mail.corp.example"
	cfg.Accounts = []AccountConfig{{ID: "acct-1", Email: "alice@corp.example", Default: true}}

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://mail.corp.example", loaded.API.BaseURL)
	require.Len(t, loaded.Accounts, 1)
	assert.True(t, loaded.Accounts[0].Default)
}
