package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/banterbot/internal/core"
	"github.com/sandevgo/banterbot/pkg/log"
)

const (
	maxSearchResults = 10

	tweetFallback  = "I couldn't fetch that tweet. Paste the text here and I'll take a look."
	searchFallback = "I searched for tweets but couldn't find anything relevant."
)

// Dispatcher runs one turn per inbound message: persist, gate, then the
// first matching branch (image, PDF document, tweet URL, generic URL,
// search intent, default) produces the terminal reply or silence.
type Dispatcher struct {
	history  core.HistoryRepository
	facts    core.FactsRepository
	ai       core.Completer
	pages    core.PageFetcher
	tweets   core.TweetProvider // nil when no tweet API key is configured
	intents  *Classifier
	composer *Composer
	window   int

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewDispatcher(
	history core.HistoryRepository,
	facts core.FactsRepository,
	ai core.Completer,
	pages core.PageFetcher,
	tweets core.TweetProvider,
	composer *Composer,
	window int,
) *Dispatcher {
	return &Dispatcher{
		history:  history,
		facts:    facts,
		ai:       ai,
		pages:    pages,
		tweets:   tweets,
		intents:  NewClassifier(ai),
		composer: composer,
		window:   window,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Handle processes one turn. An empty reply means deliberate silence.
// Turns within one chat are serialized; different chats run concurrently.
func (d *Dispatcher) Handle(ctx context.Context, msg core.Inbound, botHandle string) string {
	unlock := d.lockChat(msg.ChatID)
	defer unlock()

	reply, branch := d.run(ctx, msg, botHandle)

	logger := log.FromCtx(ctx)
	if branch != "" {
		logger.Info().
			Int64("chat", msg.ChatID).
			Str("branch", branch).
			Int("reply_len", len(reply)).
			Msg("turn complete")
	}
	return reply
}

func (d *Dispatcher) run(ctx context.Context, msg core.Inbound, botHandle string) (reply, branch string) {
	logger := log.FromCtx(ctx)

	// Every message with text is recorded, reply or not.
	if msg.Text != "" {
		if err := d.history.Append(ctx, msg.ChatID, msg.Sender, msg.Text); err != nil {
			logger.Error().Err(err).Int64("chat", msg.ChatID).Msg("failed to record message")
			if !ShouldReply(msg, botHandle) {
				return "", ""
			}
			return "Error: failed to record your message.", "storage"
		}
	}

	if !ShouldReply(msg, botHandle) {
		logger.Debug().Int64("chat", msg.ChatID).Msg("observing silently")
		return "", ""
	}

	cleaned := StripMention(msg.Text, botHandle)

	if msg.Media != nil {
		if reply, handled := d.mediaTurn(ctx, msg.Media, cleaned); handled {
			return reply, string(msg.Media.Kind)
		}
	}

	var extra string
	if url := FirstURL(cleaned); url != "" {
		if IsSocialURL(url) {
			return d.tweetTurn(ctx, url, cleaned), "tweet"
		}
		content, err := d.pages.Fetch(ctx, url)
		if err != nil {
			logger.Debug().Err(err).Str("url", url).Msg("page fetch failed")
			extra = fmt.Sprintf("(could not fetch content from %s)", url)
		} else {
			extra = content
		}
	}

	entries, err := d.history.Recent(ctx, msg.ChatID, d.window)
	if err != nil {
		logger.Error().Err(err).Int64("chat", msg.ChatID).Msg("failed to load history")
		return "Error: failed to load chat history.", "storage"
	}
	entries = dropCurrent(entries, msg)

	if query := d.intents.SearchQuery(ctx, cleaned, historyLines(entries)); query != "" {
		return d.searchTurn(ctx, query, cleaned), "search"
	}

	return d.defaultTurn(ctx, msg, cleaned, entries, extra), "default"
}

// mediaTurn handles image and PDF attachments. A non-PDF document is not
// handled and falls through to the text branches. Failure to download the
// attachment ends the turn silently.
func (d *Dispatcher) mediaTurn(ctx context.Context, m *core.Media, cleaned string) (string, bool) {
	logger := log.FromCtx(ctx)

	mime := m.MIME
	question := cleaned

	switch m.Kind {
	case core.MediaImage:
		if mime == "" {
			mime = "image/jpeg"
		}
		if question == "" {
			question = "Describe this image."
		}
	case core.MediaDocument:
		if !strings.EqualFold(mime, "application/pdf") {
			return "", false
		}
		if question == "" {
			question = "Summarize this document."
		}
	default:
		return "", false
	}

	data, err := m.Fetch(ctx)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(m.Kind)).Msg("failed to download attachment")
		return "", true
	}

	prompt := question + "\n\nReply in plain text only, no markdown formatting."
	out, err := d.ai.CompleteMedia(ctx, prompt, core.MediaPayload{Kind: m.Kind, MIME: mime, Data: data})
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return out, true
}

func (d *Dispatcher) tweetTurn(ctx context.Context, url, cleaned string) string {
	logger := log.FromCtx(ctx)

	id := ExtractPostID(url)
	if id == "" || d.tweets == nil {
		return tweetFallback
	}

	tweet, err := d.tweets.Lookup(ctx, id)
	if err != nil {
		logger.Debug().Err(err).Str("id", id).Msg("tweet lookup failed")
		return tweetFallback
	}

	prompt := fmt.Sprintf(`Here is a tweet:

@%s: %s

The user said: %s

Respond to the user about this tweet. Reply in plain text only, no markdown formatting.`,
		tweet.Author, tweet.Text, cleaned)

	out, err := d.ai.Complete(ctx, prompt)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}

func (d *Dispatcher) searchTurn(ctx context.Context, query, cleaned string) string {
	logger := log.FromCtx(ctx)

	if d.tweets == nil {
		return searchFallback
	}

	results, err := d.tweets.Search(ctx, query, maxSearchResults)
	if err != nil || len(results) == 0 {
		logger.Debug().Err(err).Str("query", query).Msg("tweet search produced nothing")
		return searchFallback
	}

	prompt := fmt.Sprintf(`Here are tweets found for the search %q:

%s

The user asked: %s

Summarize what people are saying. Reply in plain text only, no markdown formatting.`,
		query, formatTweets(results), cleaned)

	out, err := d.ai.Complete(ctx, prompt)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}

func (d *Dispatcher) defaultTurn(ctx context.Context, msg core.Inbound, cleaned string, entries []core.HistoryEntry, extra string) string {
	logger := log.FromCtx(ctx)

	facts, err := d.facts.All(ctx, msg.ChatID)
	if err != nil {
		logger.Error().Err(err).Int64("chat", msg.ChatID).Msg("failed to load facts")
		return "Error: failed to load chat memory."
	}

	prompt := d.composer.Build(msg.Sender, cleaned, entries, facts, extra)
	out, err := d.ai.Complete(ctx, prompt)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	ex := SplitFacts(out)
	if ex.HasFact {
		if err := d.facts.Upsert(ctx, msg.ChatID, ex.Username, ex.Facts); err != nil {
			// The reply is still delivered; fact persistence is best-effort.
			logger.Error().Err(err).Str("username", ex.Username).Msg("failed to upsert facts")
		}
	}
	return ex.Reply
}

// formatTweets renders search results as "@author (N likes): text" entries
// joined by blank lines.
func formatTweets(tweets []core.Tweet) string {
	lines := make([]string, 0, len(tweets))
	for _, t := range tweets {
		lines = append(lines, fmt.Sprintf("@%s (%d likes): %s", t.Author, t.Likes, t.Text))
	}
	return strings.Join(lines, "\n\n")
}

func historyLines(entries []core.HistoryEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Sender, e.Text))
	}
	return strings.Join(lines, "\n")
}

// dropCurrent removes the just-appended current message from the replayed
// window so the prompt does not repeat it.
func dropCurrent(entries []core.HistoryEntry, msg core.Inbound) []core.HistoryEntry {
	n := len(entries)
	if n > 0 && entries[n-1].Sender == msg.Sender && entries[n-1].Text == msg.Text {
		return entries[:n-1]
	}
	return entries
}

func (d *Dispatcher) lockChat(chatID int64) func() {
	d.mu.Lock()
	l, ok := d.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[chatID] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}
