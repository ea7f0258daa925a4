package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sandevgo/banterbot/internal/config"
	"github.com/sandevgo/banterbot/internal/core"
)

const defaultTimeout = 10 * time.Second

// Client talks to a twitterapi.io-style tweet API: key in the x-api-key
// header, tweets as {author:{userName},text,likeCount} JSON objects.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClient(cfg *config.TwitterConfig) *Client {
	return &Client{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

type apiTweet struct {
	Author struct {
		UserName string `json:"userName"`
	} `json:"author"`
	Text      string `json:"text"`
	LikeCount int    `json:"likeCount"`
}

type apiResponse struct {
	Tweets []apiTweet `json:"tweets"`
}

// Lookup fetches a single tweet by its numeric ID.
func (c *Client) Lookup(ctx context.Context, id string) (*core.Tweet, error) {
	q := url.Values{}
	q.Set("tweet_ids", id)

	tweets, err := c.get(ctx, "/twitter/tweets", q)
	if err != nil {
		return nil, err
	}
	if len(tweets) == 0 {
		return nil, fmt.Errorf("tweet %s not found", id)
	}

	t := toTweet(tweets[0])
	return &t, nil
}

// Search runs a free-text tweet search, returning at most limit results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]core.Tweet, error) {
	q := url.Values{}
	q.Set("query", query)

	tweets, err := c.get(ctx, "/twitter/tweet/advanced_search", q)
	if err != nil {
		return nil, err
	}
	if len(tweets) > limit {
		tweets = tweets[:limit]
	}

	out := make([]core.Tweet, 0, len(tweets))
	for _, t := range tweets {
		out = append(out, toTweet(t))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]apiTweet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result apiResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return result.Tweets, nil
}

func toTweet(t apiTweet) core.Tweet {
	return core.Tweet{
		Author: t.Author.UserName,
		Text:   t.Text,
		Likes:  t.LikeCount,
	}
}
