package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/banterbot/internal/config"
	"github.com/sandevgo/banterbot/internal/core"
	"github.com/sandevgo/banterbot/internal/providers/fetch"
	"github.com/sandevgo/banterbot/internal/providers/llm"
	"github.com/sandevgo/banterbot/internal/providers/twitter"
	"github.com/sandevgo/banterbot/internal/service/chat"
	"github.com/sandevgo/banterbot/internal/storage/sqlite"
	"github.com/sandevgo/banterbot/internal/transport/telegram"
	"github.com/sandevgo/banterbot/pkg/log"
	"github.com/sandevgo/banterbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	anthropicCfg := config.NewAnthropicConfig(ctx)
	twitterCfg := config.NewTwitterConfig(ctx)

	// 2. Storage
	db, history, facts, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. AI Provider
	ai := llm.NewAnthropic(anthropicCfg.APIKey, anthropicCfg.Model, anthropicCfg.MaxTokens)

	// 4. Enrichment providers
	pages := fetch.NewPage()

	var tweets core.TweetProvider
	if twitterCfg.Enabled() {
		tweets = twitter.NewClient(twitterCfg)
	} else {
		logger.Info().Msg("tweet API key not set, tweet features disabled")
	}

	// 5. Chat dispatcher
	dispatcher := chat.NewDispatcher(
		history,
		facts,
		ai,
		pages,
		tweets,
		chat.NewComposer(appCfg.PromptTokenBudget),
		appCfg.HistoryWindow,
	)

	// 6. Transport
	tgCfg := config.NewTelegramConfig(ctx)
	bot, err := telegram.NewBot(ctx, tgCfg, dispatcher)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	services = append(services, bot)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, core.HistoryRepository, core.FactsRepository, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, nil, err
	}
	return db, sqlite.NewHistoryRepo(db), sqlite.NewFactsRepo(db), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
