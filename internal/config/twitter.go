package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/banterbot/pkg/log"
)

// TwitterConfig holds the tweet lookup/search API settings. The key is
// optional: without it the tweet branches degrade to their fallbacks.
type TwitterConfig struct {
	APIKey  string `env:"TWITTER_API_KEY"`
	BaseURL string `env:"TWITTER_API_URL" envDefault:"https://api.twitterapi.io"`
}

func NewTwitterConfig(ctx context.Context) *TwitterConfig {
	c := &TwitterConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Twitter config")
	}
	return c
}

func (c TwitterConfig) Enabled() bool {
	return c.APIKey != ""
}
