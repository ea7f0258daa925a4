package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/banterbot/internal/core"
	"github.com/sandevgo/banterbot/pkg/log"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (h *HistoryRepo) Append(ctx context.Context, chatID int64, sender, text string) error {
	query := `INSERT INTO messages (chat_id, sender, text) VALUES (?, ?, ?)`
	if _, err := h.db.ExecContext(ctx, query, chatID, sender, text); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (h *HistoryRepo) Recent(ctx context.Context, chatID int64, limit int) ([]core.HistoryEntry, error) {
	// Fetch the LAST 'limit' messages by ordering DESC
	query := `SELECT id, chat_id, sender, text, created_at FROM messages WHERE chat_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		var e core.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Sender, &e.Text, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returned newest-first; the prompt wants chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(entries)).Int64("chat", chatID).Msg("loaded history")
	return entries, nil
}
