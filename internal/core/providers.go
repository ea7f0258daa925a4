package core

import "context"

// MediaPayload is attachment content ready for a completion request.
type MediaPayload struct {
	Kind MediaKind
	MIME string
	Data []byte
}

// Completer is a single-turn completion service. Complete sends one
// user-role text prompt; CompleteMedia adds an image or document block.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteMedia(ctx context.Context, prompt string, media MediaPayload) (string, error)
}

// TweetProvider looks tweets up by ID and searches them by free text.
// Both calls are single-shot; callers turn failures into fallback replies.
type TweetProvider interface {
	Lookup(ctx context.Context, id string) (*Tweet, error)
	Search(ctx context.Context, query string, limit int) ([]Tweet, error)
}

// PageFetcher turns a URL into bounded plain text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
