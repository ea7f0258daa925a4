package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/banterbot/pkg/log"
)

type AnthropicConfig struct {
	APIKey    string `env:"ANTHROPIC_API_KEY,required,notEmpty"`
	Model     string `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-6"`
	MaxTokens int    `env:"ANTHROPIC_MAX_TOKENS" envDefault:"1024"`
}

func NewAnthropicConfig(ctx context.Context) *AnthropicConfig {
	c := &AnthropicConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Anthropic config")
	}
	return c
}
