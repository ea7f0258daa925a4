package chat

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	urlRe    = regexp.MustCompile(`https?://[^\s]+`)
	statusRe = regexp.MustCompile(`/status/(\d+)`)
)

// FirstURL returns the first URL in the text, or "".
func FirstURL(text string) string {
	return urlRe.FindString(text)
}

// ExtractPostID pulls the numeric post ID out of a /status/<digits> path
// segment. Empty result means no ID is present.
func ExtractPostID(rawURL string) string {
	m := statusRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsSocialURL reports whether the URL points at a tweet host.
func IsSocialURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	return host == "x.com" || host == "twitter.com"
}
