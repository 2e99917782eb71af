package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easemail/easemail/internal/api"
	"github.com/easemail/easemail/internal/app"
	"github.com/easemail/easemail/internal/credential"
	"github.com/easemail/easemail/internal/model"
	"github.com/easemail/easemail/internal/store"
)

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot determine home directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load config: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "login" {
		if err := login(); err != nil {
			fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Token stored.")
		return
	}

	token := os.Getenv("EASEMAIL_TOKEN")
	if token == "" {
		token, err = credential.Get("api-token")
		if err != nil || token == "" {
			fmt.Fprintln(os.Stderr,
				"No API token found. Set EASEMAIL_TOKEN or store one with "+
					"`easemail login`.")
			os.Exit(1)
		}
	}

	configDir := filepath.Join(home, ".config", "easemail")
	dbPath := filepath.Join(configDir, "easemail.db")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create config directory: %v\n", err)
		os.Exit(1)
	}

	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	client := api.NewClient(
		cfg.API.BaseURL,
		token,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
	)

	p := tea.NewProgram(app.New(cfg, client, db), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

// login reads an API token from stdin and stores it in the system keyring.
func login() error {
	fmt.Print("Paste your EaseMail API token: ")
	var token string
	if _, err := fmt.Scanln(&token); err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	return credential.Set("api-token", token)
}
