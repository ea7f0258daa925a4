package core

import (
	"context"
	"time"
)

type HistoryEntry struct {
	ID        int64
	ChatID    int64
	Sender    string
	Text      string
	CreatedAt time.Time
}

// HistoryRepository is the append-only chat log. Append never validates
// beyond non-empty fields; Recent returns oldest-first, at most limit.
type HistoryRepository interface {
	Append(ctx context.Context, chatID int64, sender, text string) error
	Recent(ctx context.Context, chatID int64, limit int) ([]HistoryEntry, error)
}

// FactsRepository stores one opaque facts blob per (chat, username).
// Upsert is a full-value replace, last write wins.
type FactsRepository interface {
	Upsert(ctx context.Context, chatID int64, username, facts string) error
	All(ctx context.Context, chatID int64) (map[string]string, error)
}
