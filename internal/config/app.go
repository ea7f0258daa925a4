package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/banterbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"BANTER_RUNTIME_PATH" envDefault:".banterbot"`

	// How many stored messages feed back into each prompt
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"50"`

	// Upper bound on history tokens inside a composed prompt
	PromptTokenBudget int `env:"PROMPT_TOKEN_BUDGET" envDefault:"3000"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	// One resolution for the whole process: the database must live next to
	// the .env the installer wrote, wherever the binary is started from.
	c.RuntimePath = GetRuntimePath()
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "banterbot.db")
}
