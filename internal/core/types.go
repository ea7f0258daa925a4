package core

import "context"

const (
	BanterName      = "BanterBot"
	BanterUserAgent = "Mozilla/5.0 (compatible; BanterBot/0.1)"
	BanterVersion   = "0.1.0"
)

type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaDocument MediaKind = "document"
)

// Media is a lazily fetched attachment. The transport provides the Fetch
// closure; bytes are only pulled when a branch actually needs them.
type Media struct {
	Kind  MediaKind
	MIME  string
	Fetch func(ctx context.Context) ([]byte, error)
}

// Inbound is one platform update, normalized away from the SDK types so
// the turn pipeline stays testable without a live bot.
type Inbound struct {
	ChatID     int64
	Sender     string // display name, used in history and prompts
	Username   string // platform handle, used as the facts key
	Text       string // message text or attachment caption
	IsPrivate  bool
	ReplyToBot bool
	Media      *Media
}

// Tweet is the subset of the lookup/search API response the bot cares about.
type Tweet struct {
	Author string
	Text   string
	Likes  int
}
