package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/easemail/easemail/internal/model"
)

// messageRow is the flat sqlite representation of a cached summary.
type messageRow struct {
	AccountID     string `db:"account_id"`
	Folder        string `db:"folder"`
	ID            string `db:"id"`
	ThreadID      string `db:"thread_id"`
	FromJSON      string `db:"from_json"`
	ToJSON        string `db:"to_json"`
	CcJSON        string `db:"cc_json"`
	Subject       string `db:"subject"`
	Snippet       string `db:"snippet"`
	Timestamp     int64  `db:"timestamp"`
	Unread        bool   `db:"unread"`
	Starred       bool   `db:"starred"`
	FoldersJSON   string `db:"folders_json"`
	HasAttachment bool   `db:"has_attachment"`
	CachedAt      time.Time `db:"cached_at"`
}

// toRow flattens a summary for storage.
func toRow(accountID string, folder model.Folder, m model.MessageSummary) messageRow {
	fromJSON, _ := json.Marshal(m.From)
	toJSON, _ := json.Marshal(m.To)
	ccJSON, _ := json.Marshal(m.Cc)
	foldersJSON, _ := json.Marshal(m.Folders)

	return messageRow{
		AccountID:     accountID,
		Folder:        string(folder),
		ID:            m.ID,
		ThreadID:      m.ThreadID,
		FromJSON:      string(fromJSON),
		ToJSON:        string(toJSON),
		CcJSON:        string(ccJSON),
		Subject:       m.Subject,
		Snippet:       m.Snippet,
		Timestamp:     m.Timestamp,
		Unread:        m.Unread,
		Starred:       m.Starred,
		FoldersJSON:   string(foldersJSON),
		HasAttachment: m.HasAttachment,
		CachedAt:      time.Now().UTC(),
	}
}

// toSummary inflates a stored row.
func (r messageRow) toSummary() model.MessageSummary {
	m := model.MessageSummary{
		ID:            r.ID,
		ThreadID:      r.ThreadID,
		AccountID:     r.AccountID,
		Subject:       r.Subject,
		Snippet:       r.Snippet,
		Timestamp:     r.Timestamp,
		Unread:        r.Unread,
		Starred:       r.Starred,
		HasAttachment: r.HasAttachment,
	}
	_ = json.Unmarshal([]byte(r.FromJSON), &m.From)
	_ = json.Unmarshal([]byte(r.ToJSON), &m.To)
	_ = json.Unmarshal([]byte(r.CcJSON), &m.Cc)
	_ = json.Unmarshal([]byte(r.FoldersJSON), &m.Folders)
	return m
}

// ReplaceFolder replaces the cached page for an account/folder.
func (s *SQLiteStore) ReplaceFolder(
	ctx context.Context,
	accountID string,
	folder model.Folder,
	msgs []model.MessageSummary,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM message_cache WHERE account_id = ? AND folder = ?",
		accountID, string(folder),
	)
	if err != nil {
		return fmt.Errorf("clearing cached folder: %w", err)
	}

	if err := insertRows(ctx, tx, accountID, folder, msgs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing folder cache: %w", err)
	}
	return nil
}

// AppendToFolder adds messages to the cached page (pagination appends).
func (s *SQLiteStore) AppendToFolder(
	ctx context.Context,
	accountID string,
	folder model.Folder,
	msgs []model.MessageSummary,
) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRows(ctx, tx, accountID, folder, msgs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing folder append: %w", err)
	}
	return nil
}

// insertRows upserts summaries into the cache within a transaction.
func insertRows(
	ctx context.Context,
	tx *sqlx.Tx,
	accountID string,
	folder model.Folder,
	msgs []model.MessageSummary,
) error {
	const query = `
		INSERT OR REPLACE INTO message_cache (
			account_id, folder, id, thread_id,
			from_json, to_json, cc_json,
			subject, snippet, timestamp,
			unread, starred, folders_json, has_attachment, cached_at
		) VALUES (
			:account_id, :folder, :id, :thread_id,
			:from_json, :to_json, :cc_json,
			:subject, :snippet, :timestamp,
			:unread, :starred, :folders_json, :has_attachment, :cached_at
		)`

	for _, m := range msgs {
		if _, err := tx.NamedExecContext(ctx, query, toRow(accountID, folder, m)); err != nil {
			return fmt.Errorf("caching message %s: %w", m.ID, err)
		}
	}
	return nil
}

// CachedMessages returns the cached page, newest first.
func (s *SQLiteStore) CachedMessages(
	ctx context.Context,
	accountID string,
	folder model.Folder,
) ([]model.MessageSummary, error) {
	var rows []messageRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM message_cache
		WHERE account_id = ? AND folder = ?
		ORDER BY timestamp DESC`,
		accountID, string(folder),
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached messages: %w", err)
	}

	msgs := make([]model.MessageSummary, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, r.toSummary())
	}
	return msgs, nil
}

// RemoveMessages drops messages from every cached folder page.
func (s *SQLiteStore) RemoveMessages(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(
		strings.Repeat("?,", len(ids)), ",",
	)
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM message_cache WHERE id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("removing cached messages: %w", err)
	}
	return nil
}
