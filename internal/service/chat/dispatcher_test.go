package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sandevgo/banterbot/internal/core"
)

// --- fakes -----------------------------------------------------------------

type fakeCompleter struct {
	reply string
	err   error
	// fn, when set, overrides reply/err per prompt
	fn func(prompt string) (string, error)

	prompts    []string
	media      []core.MediaPayload
	mediaReply string
	mediaErr   error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.fn != nil {
		return f.fn(prompt)
	}
	return f.reply, f.err
}

func (f *fakeCompleter) CompleteMedia(ctx context.Context, prompt string, media core.MediaPayload) (string, error) {
	f.media = append(f.media, media)
	return f.mediaReply, f.mediaErr
}

// scripted answers NO to intent classification and the given reply to
// everything else.
func scripted(reply string, err error) *fakeCompleter {
	return &fakeCompleter{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "intent detector") {
			return "NO", nil
		}
		return reply, err
	}}
}

type fakeHistory struct {
	entries   []core.HistoryEntry
	appendErr error
	recentErr error
}

func (f *fakeHistory) Append(ctx context.Context, chatID int64, sender, text string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, core.HistoryEntry{
		ID:     int64(len(f.entries) + 1),
		ChatID: chatID,
		Sender: sender,
		Text:   text,
	})
	return nil
}

func (f *fakeHistory) Recent(ctx context.Context, chatID int64, limit int) ([]core.HistoryEntry, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	var out []core.HistoryEntry
	for _, e := range f.entries {
		if e.ChatID == chatID {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeFacts struct {
	m         map[string]string
	upsertErr error
	allErr    error
}

func newFakeFacts() *fakeFacts {
	return &fakeFacts{m: make(map[string]string)}
}

func (f *fakeFacts) Upsert(ctx context.Context, chatID int64, username, facts string) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.m[fmt.Sprintf("%d/%s", chatID, username)] = facts
	return nil
}

func (f *fakeFacts) All(ctx context.Context, chatID int64) (map[string]string, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	out := make(map[string]string)
	prefix := fmt.Sprintf("%d/", chatID)
	for k, v := range f.m {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out, nil
}

type fakePages struct {
	content string
	err     error
	urls    []string
}

func (f *fakePages) Fetch(ctx context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.content, f.err
}

type fakeTweets struct {
	tweet     *core.Tweet
	lookupErr error
	results   []core.Tweet
	searchErr error
	queries   []string
}

func (f *fakeTweets) Lookup(ctx context.Context, id string) (*core.Tweet, error) {
	return f.tweet, f.lookupErr
}

func (f *fakeTweets) Search(ctx context.Context, query string, limit int) ([]core.Tweet, error) {
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.results) > limit {
		return f.results[:limit], nil
	}
	return f.results, nil
}

type deps struct {
	history *fakeHistory
	facts   *fakeFacts
	pages   *fakePages
	tweets  *fakeTweets
}

func newTestDispatcher(ai core.Completer, d deps) (*Dispatcher, deps) {
	if d.history == nil {
		d.history = &fakeHistory{}
	}
	if d.facts == nil {
		d.facts = newFakeFacts()
	}
	if d.pages == nil {
		d.pages = &fakePages{}
	}
	var tweets core.TweetProvider
	if d.tweets != nil {
		tweets = d.tweets
	}
	disp := NewDispatcher(d.history, d.facts, ai, d.pages, tweets, NewComposer(0), 50)
	return disp, d
}

// --- tests -----------------------------------------------------------------

func TestDispatcher_PrivateChatDefaultBranch(t *testing.T) {
	ai := scripted("Hello there!", nil)
	disp, d := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", Username: "alice", Text: "hi", IsPrivate: true,
	}, "banter_bot")

	if reply != "Hello there!" {
		t.Fatalf("reply = %q, want %q", reply, "Hello there!")
	}
	if len(d.history.entries) != 1 || d.history.entries[0].Text != "hi" {
		t.Errorf("message not recorded: %+v", d.history.entries)
	}

	// The main prompt carries the empty-context placeholders.
	main := ai.prompts[len(ai.prompts)-1]
	if !strings.Contains(main, "None yet.") {
		t.Errorf("prompt missing facts placeholder:\n%s", main)
	}
	if !strings.Contains(main, "(no earlier messages)") {
		t.Errorf("prompt missing empty history block:\n%s", main)
	}
}

func TestDispatcher_GroupWithoutMentionObservesSilently(t *testing.T) {
	ai := scripted("should never be called", nil)
	disp, d := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 7, Sender: "Bob", Text: "just chatting",
	}, "banter_bot")

	if reply != "" {
		t.Fatalf("expected silence, got %q", reply)
	}
	if len(d.history.entries) != 1 {
		t.Error("silent message must still be recorded in history")
	}
	if len(ai.prompts) != 0 {
		t.Error("no completion call expected for a silent turn")
	}
}

func TestDispatcher_FactsRoundTrip(t *testing.T) {
	ai := scripted("Hello\nFACTS: alice | likes tea, works in finance", nil)
	disp, d := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", Username: "alice", Text: "hi", IsPrivate: true,
	}, "banter_bot")

	if reply != "Hello" {
		t.Fatalf("reply = %q, want %q", reply, "Hello")
	}
	if got := d.facts.m["1/alice"]; got != "likes tea, works in finance" {
		t.Errorf("persisted facts = %q", got)
	}
}

func TestDispatcher_MalformedFactsDiscarded(t *testing.T) {
	ai := scripted("Hello\nFACTS: no pipe here", nil)
	disp, d := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", Text: "hi", IsPrivate: true,
	}, "banter_bot")

	if reply != "Hello" {
		t.Fatalf("reply = %q, want %q", reply, "Hello")
	}
	if len(d.facts.m) != 0 {
		t.Errorf("no facts should persist, got %v", d.facts.m)
	}
}

func TestDispatcher_FactUpsertFailureStillReplies(t *testing.T) {
	ai := scripted("Hello\nFACTS: alice | likes tea", nil)
	facts := newFakeFacts()
	facts.upsertErr = errors.New("disk full")
	disp, _ := newTestDispatcher(ai, deps{facts: facts})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", Text: "hi", IsPrivate: true,
	}, "banter_bot")

	if reply != "Hello" {
		t.Fatalf("reply = %q, want %q", reply, "Hello")
	}
}

func TestDispatcher_FirstURLOnly(t *testing.T) {
	ai := scripted("summary", nil)
	disp, d := newTestDispatcher(ai, deps{pages: &fakePages{content: "page text"}})

	disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", IsPrivate: true,
		Text: "check this out https://example.com/a cool and https://example.com/b",
	}, "banter_bot")

	if len(d.pages.urls) != 1 || d.pages.urls[0] != "https://example.com/a" {
		t.Errorf("fetched urls = %v, want only the first", d.pages.urls)
	}

	main := ai.prompts[len(ai.prompts)-1]
	if !strings.Contains(main, "page text") {
		t.Errorf("prompt missing fetched content:\n%s", main)
	}
}

func TestDispatcher_PageFetchFailureFallsBackToPlaceholder(t *testing.T) {
	ai := scripted("ok", nil)
	disp, _ := newTestDispatcher(ai, deps{pages: &fakePages{err: errors.New("boom")}})

	disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", IsPrivate: true,
		Text: "see https://example.com/a",
	}, "banter_bot")

	main := ai.prompts[len(ai.prompts)-1]
	if !strings.Contains(main, "could not fetch content from https://example.com/a") {
		t.Errorf("prompt missing fetch placeholder:\n%s", main)
	}
}

func TestDispatcher_SocialURLBranch(t *testing.T) {
	ai := scripted("that tweet is great", nil)
	tweets := &fakeTweets{tweet: &core.Tweet{Author: "alice", Text: "go 1.25 is out", Likes: 42}}
	disp, _ := newTestDispatcher(ai, deps{tweets: tweets})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Bob", IsPrivate: true,
		Text: "what do you think https://x.com/alice/status/12345",
	}, "banter_bot")

	if reply != "that tweet is great" {
		t.Fatalf("reply = %q", reply)
	}
	prompt := ai.prompts[len(ai.prompts)-1]
	if !strings.Contains(prompt, "@alice: go 1.25 is out") {
		t.Errorf("prompt missing tweet line:\n%s", prompt)
	}
}

func TestDispatcher_SocialURLWithoutProviderFallsBack(t *testing.T) {
	ai := scripted("unused", nil)
	disp, _ := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Bob", IsPrivate: true,
		Text: "https://x.com/alice/status/12345",
	}, "banter_bot")

	if reply != tweetFallback {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestDispatcher_SearchIntentBranch(t *testing.T) {
	ai := &fakeCompleter{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "intent detector") {
			return "golang release news", nil
		}
		return "people are excited", nil
	}}
	tweets := &fakeTweets{results: []core.Tweet{
		{Author: "alice", Text: "so fast", Likes: 7},
		{Author: "bob", Text: "loving it", Likes: 3},
	}}
	disp, d := newTestDispatcher(ai, deps{tweets: tweets})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Bob", IsPrivate: true,
		Text: "any tweets about the new go release?",
	}, "banter_bot")

	if reply != "people are excited" {
		t.Fatalf("reply = %q", reply)
	}
	if len(d.tweets.queries) != 1 || d.tweets.queries[0] != "golang release news" {
		t.Errorf("search queries = %v", d.tweets.queries)
	}
	prompt := ai.prompts[len(ai.prompts)-1]
	if !strings.Contains(prompt, "@alice (7 likes): so fast") {
		t.Errorf("prompt missing formatted tweet:\n%s", prompt)
	}
}

func TestDispatcher_SearchFailureFallsBack(t *testing.T) {
	ai := &fakeCompleter{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "intent detector") {
			return "some query", nil
		}
		return "unused", nil
	}}
	tweets := &fakeTweets{searchErr: errors.New("api down")}
	disp, _ := newTestDispatcher(ai, deps{tweets: tweets})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Bob", IsPrivate: true, Text: "find tweets please",
	}, "banter_bot")

	if reply != searchFallback {
		t.Fatalf("reply = %q, want search fallback", reply)
	}
}

func TestDispatcher_ImageBranch(t *testing.T) {
	ai := scripted("unused", nil)
	ai.mediaReply = "a cat on a keyboard"
	disp, _ := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", IsPrivate: true, Text: "what is this?",
		Media: &core.Media{
			Kind: core.MediaImage,
			Fetch: func(ctx context.Context) ([]byte, error) {
				return []byte{0xFF, 0xD8}, nil
			},
		},
	}, "banter_bot")

	if reply != "a cat on a keyboard" {
		t.Fatalf("reply = %q", reply)
	}
	if len(ai.media) != 1 || ai.media[0].Kind != core.MediaImage {
		t.Fatalf("media calls = %+v", ai.media)
	}
	if ai.media[0].MIME != "image/jpeg" {
		t.Errorf("default image MIME = %q", ai.media[0].MIME)
	}
}

func TestDispatcher_ImageDownloadFailureIsSilent(t *testing.T) {
	ai := scripted("unused", nil)
	disp, _ := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", IsPrivate: true, Text: "look",
		Media: &core.Media{
			Kind: core.MediaImage,
			Fetch: func(ctx context.Context) ([]byte, error) {
				return nil, errors.New("file expired")
			},
		},
	}, "banter_bot")

	if reply != "" {
		t.Fatalf("expected silence, got %q", reply)
	}
}

func TestDispatcher_NonPDFDocumentFallsThrough(t *testing.T) {
	ai := scripted("handled as text", nil)
	disp, _ := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", IsPrivate: true, Text: "here is a spreadsheet",
		Media: &core.Media{
			Kind: core.MediaDocument,
			MIME: "application/vnd.ms-excel",
			Fetch: func(ctx context.Context) ([]byte, error) {
				t.Fatal("non-PDF document must not be downloaded")
				return nil, nil
			},
		},
	}, "banter_bot")

	if reply != "handled as text" {
		t.Fatalf("reply = %q", reply)
	}
	if len(ai.media) != 0 {
		t.Error("no media completion expected")
	}
}

func TestDispatcher_CompletionFailureYieldsErrorReply(t *testing.T) {
	ai := scripted("", errors.New("overloaded"))
	disp, _ := newTestDispatcher(ai, deps{})

	reply := disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", IsPrivate: true, Text: "hi",
	}, "banter_bot")

	if reply != "Error: overloaded" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestDispatcher_MentionStrippedFromPrompt(t *testing.T) {
	ai := scripted("ok", nil)
	disp, _ := newTestDispatcher(ai, deps{})

	disp.Handle(context.Background(), core.Inbound{
		ChatID: 1, Sender: "Alice", Text: "@banter_bot what time is it",
	}, "banter_bot")

	main := ai.prompts[len(ai.prompts)-1]
	if strings.Contains(main, "@banter_bot") {
		t.Errorf("mention token leaked into prompt:\n%s", main)
	}
	if !strings.Contains(main, "from Alice: what time is it") {
		t.Errorf("cleaned text missing:\n%s", main)
	}
}
