// Package postgres provides a tabular mention sink backed by Postgres, as an
// alternative destination to Google Sheets.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"mention_tracker/internal/domain"
)

type MentionStore struct {
	db *sqlx.DB
}

func NewMentionStore(db *sqlx.DB) *MentionStore {
	return &MentionStore{db: db}
}

// Replace swaps the full table contents for the given mention set in one
// transaction. The seq column preserves the aggregator's ordering.
func (s *MentionStore) Replace(ctx context.Context, mentions []domain.Mention) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := replaceAll(ctx, tx, mentions); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func replaceAll(ctx context.Context, tx *sqlx.Tx, mentions []domain.Mention) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM mentions"); err != nil {
		return fmt.Errorf("clear mentions: %w", err)
	}

	query := `
		INSERT INTO mentions (seq, source, title, link, published_at, summary)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i, m := range mentions {
		var publishedAt interface{}
		if !m.PublishedAt.IsZero() {
			publishedAt = m.PublishedAt
		}

		if _, err := tx.ExecContext(ctx, query,
			i,
			m.Source,
			m.Title,
			m.Link,
			publishedAt,
			m.Summary,
		); err != nil {
			return fmt.Errorf("insert mention %d: %w", i, err)
		}
	}

	return nil
}
