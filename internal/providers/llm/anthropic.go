package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/banterbot/internal/core"
)

const anthropicVersion = "2023-06-01"

type Anthropic struct {
	baseProvider
	maxTokens int
}

func NewAnthropic(apiKey, model string, maxTokens int) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider("https://api.anthropic.com", apiKey, model),
		maxTokens:    maxTokens,
	}
}

// newAnthropicWithBaseURL is used by tests to point at a local server.
func newAnthropicWithBaseURL(baseURL, apiKey, model string, maxTokens int) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
		maxTokens:    maxTokens,
	}
}

func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	return a.send(ctx, prompt)
}

func (a *Anthropic) CompleteMedia(ctx context.Context, prompt string, media core.MediaPayload) (string, error) {
	source := map[string]any{
		"type":       "base64",
		"media_type": media.MIME,
		"data":       base64.StdEncoding.EncodeToString(media.Data),
	}

	blockType := "image"
	if media.Kind == core.MediaDocument {
		blockType = "document"
	}

	blocks := []map[string]any{
		{"type": blockType, "source": source},
		{"type": "text", "text": prompt},
	}
	return a.send(ctx, blocks)
}

// send posts one user-role message whose content is either a plain string
// or a list of content blocks, and returns the concatenated text blocks of
// the reply.
func (a *Anthropic) send(ctx context.Context, content any) (string, error) {
	payload := map[string]any{
		"model":      a.model,
		"max_tokens": a.maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}

	resp, err := a.doRequest(ctx, http.MethodPost, "/v1/messages", payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	var text string
	for _, c := range result.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	return text, nil
}
