package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/banterbot/pkg/log"
)

type FactsRepo struct {
	db *sql.DB
}

func NewFactsRepo(db *sql.DB) *FactsRepo {
	return &FactsRepo{db: db}
}

// Upsert replaces the whole facts blob for (chat, username).
func (f *FactsRepo) Upsert(ctx context.Context, chatID int64, username, facts string) error {
	query := `INSERT INTO user_facts (chat_id, username, facts) VALUES (?, ?, ?)
		ON CONFLICT(chat_id, username) DO UPDATE SET facts = excluded.facts, updated_at = CURRENT_TIMESTAMP`

	if _, err := f.db.ExecContext(ctx, query, chatID, username, facts); err != nil {
		return fmt.Errorf("failed to upsert facts: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("username", username).Int64("chat", chatID).Msg("stored facts")
	return nil
}

func (f *FactsRepo) All(ctx context.Context, chatID int64) (map[string]string, error) {
	rows, err := f.db.QueryContext(ctx, `SELECT username, facts FROM user_facts WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	facts := make(map[string]string)
	for rows.Next() {
		var username, blob string
		if err := rows.Scan(&username, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan facts: %w", err)
		}
		facts[username] = blob
	}
	return facts, rows.Err()
}
