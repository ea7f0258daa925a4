package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/banterbot/internal/core"
	"github.com/sandevgo/banterbot/pkg/log"
)

const negativeToken = "NO"

// Classifier is a model-backed micro-classifier: does this message ask for
// a tweet search, and if so, what should be searched.
type Classifier struct {
	ai core.Completer
}

func NewClassifier(ai core.Completer) *Classifier {
	return &Classifier{ai: ai}
}

// SearchQuery returns a compact search query, or "" when the message has
// no tweet-search intent. Any service failure degrades to "".
func (c *Classifier) SearchQuery(ctx context.Context, text, history string) string {
	prompt := fmt.Sprintf(`You are an intent detector for a chat bot.
Recent conversation:
%s

Latest message: %s

Does the latest message ask to search, look up or find tweets or posts on Twitter/X?
If yes, answer with ONLY a short search query of 3-6 words.
If no, answer with ONLY the word NO.`, history, text)

	resp, err := c.ai.Complete(ctx, prompt)
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("intent classification failed")
		return ""
	}

	// Only the first line counts; models occasionally elaborate.
	answer := strings.TrimSpace(resp)
	if i := strings.IndexByte(answer, '\n'); i >= 0 {
		answer = strings.TrimSpace(answer[:i])
	}

	if answer == "" || strings.EqualFold(answer, negativeToken) {
		return ""
	}
	return answer
}
