package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/banterbot/internal/core"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20 // read cap before text conversion
	maxPageChars    = 5000    // bound on prompt contribution
)

// ErrUnsupportedContent marks binary formats the prompt cannot carry.
var ErrUnsupportedContent = errors.New("unsupported content type")

type Page struct {
	client   *http.Client
	maxChars int
}

func NewPage() *Page {
	return &Page{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		maxChars: maxPageChars,
	}
}

// Fetch GETs the URL and reduces the body to whitespace-collapsed plain
// text, truncated to the char budget.
func (p *Page) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	// Mimic a browser to avoid some basic blocking
	req.Header.Set("User-Agent", core.BanterUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, resp.Status)
	}

	if isBinaryContentType(resp.Header.Get("Content-Type")) {
		return "", ErrUnsupportedContent
	}

	limited := io.LimitReader(resp.Body, maxResponseSize)
	text, err := html2text.FromReader(limited, html2text.Options{OmitLinks: true})
	if err != nil {
		return "", fmt.Errorf("convert body: %w", err)
	}

	text = strings.Join(strings.Fields(text), " ")
	return truncate(text, p.maxChars), nil
}

// truncate cuts text at max bytes without splitting a multi-byte rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}

func isBinaryContentType(ct string) bool {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "application/pdf"):
		return true
	case strings.Contains(ct, "image/"),
		strings.Contains(ct, "audio/"),
		strings.Contains(ct, "video/"),
		strings.Contains(ct, "application/octet-stream"),
		strings.Contains(ct, "application/zip"):
		return true
	}
	return false
}
