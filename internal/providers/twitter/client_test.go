package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/banterbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTweets = `{"tweets":[
	{"author":{"userName":"alice"},"text":"go 1.25 is out","likeCount":42},
	{"author":{"userName":"bob"},"text":"generics everywhere","likeCount":7},
	{"author":{"userName":"carol"},"text":"sqlite forever","likeCount":3}
]}`

func newTestClient(baseURL, apiKey string) *Client {
	return NewClient(&config.TwitterConfig{BaseURL: baseURL, APIKey: apiKey})
}

func TestClient_Lookup(t *testing.T) {
	var gotKey, gotIDs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotIDs = r.URL.Query().Get("tweet_ids")
		fmt.Fprint(w, sampleTweets)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "secret")
	tweet, err := c.Lookup(context.Background(), "12345")

	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "12345", gotIDs)
	assert.Equal(t, "alice", tweet.Author)
	assert.Equal(t, "go 1.25 is out", tweet.Text)
	assert.Equal(t, 42, tweet.Likes)
}

func TestClient_ConfigWiring(t *testing.T) {
	// The config carries both the endpoint and the key; a client built from
	// it must hit that endpoint and authenticate with that key.
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "secret-key", r.Header.Get("x-api-key"))
		fmt.Fprint(w, sampleTweets)
	}))
	defer server.Close()

	cfg := &config.TwitterConfig{APIKey: "secret-key", BaseURL: server.URL}
	require.True(t, cfg.Enabled())

	c := NewClient(cfg)
	_, err := c.Lookup(context.Background(), "12345")
	require.NoError(t, err)
	require.Equal(t, 1, requests)
}

func TestClient_Lookup_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tweets":[]}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "secret")
	_, err := c.Lookup(context.Background(), "404")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClient_Search_CapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang release", r.URL.Query().Get("query"))
		fmt.Fprint(w, sampleTweets)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "secret")
	tweets, err := c.Search(context.Background(), "golang release", 2)

	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, "alice", tweets[0].Author)
	assert.Equal(t, "bob", tweets[1].Author)
}

func TestClient_Search_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "bad-key")
	_, err := c.Search(context.Background(), "anything", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 401")
}
