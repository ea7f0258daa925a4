package chat

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	zlog "github.com/rs/zerolog/log"
	"github.com/sandevgo/banterbot/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

const (
	roleFraming = "You are a helpful assistant in a group chat. You have persistent memory about chat members and you can fetch links and search tweets when asked."

	formatConstraint = "Reply in plain text only, no markdown formatting."

	// The trailing instruction is the producer side of the FACTS contract;
	// the extractor in facts.go is the consumer side.
	factsInstruction = "If you learned a new lasting fact about a chat member, add one final line in exactly this format:\n" +
		"FACTS: username | fact1, fact2\n" +
		"If there is nothing new to remember, do not add a FACTS line."
)

// Composer assembles the full contextual prompt. History is additionally
// bounded by a token budget, oldest lines dropped first.
type Composer struct {
	tokenBudget int
	encoding    func() (*tiktoken.Tiktoken, error)
}

func NewComposer(tokenBudget int) *Composer {
	return &Composer{
		tokenBudget: tokenBudget,
		encoding:    getTokenizer,
	}
}

func (c *Composer) Build(sender, text string, history []core.HistoryEntry, facts map[string]string, extra string) string {
	var b strings.Builder

	b.WriteString(roleFraming)
	b.WriteString("\n\nKnown facts about chat members:\n")
	b.WriteString(formatFacts(facts))

	b.WriteString("\n\nRecent conversation:\n")
	b.WriteString(c.formatHistory(history))

	fmt.Fprintf(&b, "\n\nNow respond to this message from %s: %s\n", sender, text)

	if extra != "" {
		b.WriteString("\nFetched content:\n")
		b.WriteString(extra)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatConstraint)
	b.WriteString("\n")
	b.WriteString(factsInstruction)

	return b.String()
}

func formatFacts(facts map[string]string) string {
	if len(facts) == 0 {
		return "None yet."
	}

	users := make([]string, 0, len(facts))
	for u := range facts {
		users = append(users, u)
	}
	sort.Strings(users)

	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("%s: %s", u, facts[u]))
	}
	return strings.Join(lines, "\n")
}

// formatHistory serializes entries as "sender: text" lines, trimming the
// oldest until the block fits the token budget.
func (c *Composer) formatHistory(history []core.HistoryEntry) string {
	if len(history) == 0 {
		return "(no earlier messages)"
	}

	lines := make([]string, 0, len(history))
	for _, e := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Sender, e.Text))
	}

	if c.tokenBudget > 0 {
		enc, err := c.encoding()
		if err != nil {
			// The message-count window still bounds the block.
			zlog.Error().Err(err).Msg("tokenizer unavailable, history token budget disabled")
			return strings.Join(lines, "\n")
		}

		total := 0
		tokens := make([]int, len(lines))
		for i, line := range lines {
			tokens[i] = len(enc.Encode(line, nil, nil))
			total += tokens[i]
		}
		for len(lines) > 1 && total > c.tokenBudget {
			total -= tokens[0]
			lines = lines[1:]
			tokens = tokens[1:]
		}
	}

	return strings.Join(lines, "\n")
}

// getTokenizer loads the encoding once; the first call may fetch the BPE
// data over the network, so failure is returned, not fatal.
func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}
