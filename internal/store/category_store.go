package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/easemail/easemail/internal/model"
)

// GetCategories returns the cached classifications for the given message
// IDs. IDs without a cached category are absent from the result.
func (s *SQLiteStore) GetCategories(
	ctx context.Context,
	ids []string,
) (map[string]model.Category, error) {
	if len(ids) == 0 {
		return map[string]model.Category{}, nil
	}

	placeholders := strings.TrimSuffix(
		strings.Repeat("?,", len(ids)), ",",
	)
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	var rows []struct {
		MessageID string `db:"message_id"`
		Category  string `db:"category"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT message_id, category FROM categories WHERE message_id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached categories: %w", err)
	}

	out := make(map[string]model.Category, len(rows))
	for _, r := range rows {
		out[r.MessageID] = model.Category(r.Category)
	}
	return out, nil
}

// PutCategories upserts classifications. A re-run of classification is
// the only path that overwrites an existing entry.
func (s *SQLiteStore) PutCategories(
	ctx context.Context,
	categories map[string]model.Category,
) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for id, cat := range categories {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO categories (message_id, category)
			VALUES (?, ?)`,
			id, string(cat),
		)
		if err != nil {
			return fmt.Errorf("caching category for %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing categories: %w", err)
	}
	return nil
}
