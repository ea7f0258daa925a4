package telegram

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sandevgo/banterbot/internal/config"
	"github.com/sandevgo/banterbot/internal/core"
	"github.com/sandevgo/banterbot/internal/service/chat"
	"github.com/sandevgo/banterbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

const greeting = "Hi! I'm %s. Add me to a group and mention @%s to talk to me, or just write here."

type Bot struct {
	bot        *tele.Bot
	cfg        *config.TelegramConfig
	dispatcher *chat.Dispatcher
	out        *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	dispatcher *chat.Dispatcher,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:        b,
		cfg:        cfg,
		dispatcher: dispatcher,
		out:        newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)
	b.Handle(tele.OnPhoto, bot.handleMessage)
	b.Handle(tele.OnDocument, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("username", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	// Onboarding only happens one-on-one; in a group /start is a message
	// like any other and goes through the turn pipeline.
	if !shouldGreet(c.Chat().Type) {
		return b.handleMessage(c)
	}

	name := b.bot.Me.FirstName
	if name == "" {
		name = core.BanterName
	}
	return c.Send(fmt.Sprintf(greeting, name, b.bot.Me.Username))
}

func shouldGreet(chatType tele.ChatType) bool {
	return chatType == tele.ChatPrivate
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	msg := b.toInbound(c)
	if msg.Text == "" && msg.Media == nil {
		return nil
	}

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	reply := b.dispatcher.Handle(ctx, msg, b.bot.Me.Username)
	if reply == "" {
		return nil
	}

	if err := b.out.sendMarkdown(ctx, c.Chat(), reply); err != nil {
		logger.Error().Err(err).Int64("chat", msg.ChatID).Msg("failed to send reply")
	}
	return nil
}

// toInbound maps a telebot update onto the transport-agnostic message the
// dispatcher works with.
func (b *Bot) toInbound(c tele.Context) core.Inbound {
	m := c.Message()

	sender := "User"
	username := ""
	if u := c.Sender(); u != nil {
		if u.FirstName != "" {
			sender = u.FirstName
		}
		username = u.Username
	}

	text := m.Text
	if text == "" {
		text = m.Caption
	}

	msg := core.Inbound{
		ChatID:    c.Chat().ID,
		Sender:    sender,
		Username:  username,
		Text:      text,
		IsPrivate: c.Chat().Type == tele.ChatPrivate,
	}

	if m.ReplyTo != nil && m.ReplyTo.Sender != nil && m.ReplyTo.Sender.ID == b.bot.Me.ID {
		msg.ReplyToBot = true
	}

	switch {
	case m.Photo != nil:
		msg.Media = &core.Media{
			Kind:  core.MediaImage,
			MIME:  "image/jpeg",
			Fetch: b.fileFetcher(m.Photo.MediaFile()),
		}
	case m.Document != nil:
		msg.Media = &core.Media{
			Kind:  core.MediaDocument,
			MIME:  m.Document.MIME,
			Fetch: b.fileFetcher(m.Document.MediaFile()),
		}
	}

	return msg
}

// fileFetcher defers the download until a branch actually needs the bytes.
func (b *Bot) fileFetcher(file *tele.File) func(ctx context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		rc, err := b.bot.File(file)
		if err != nil {
			return nil, fmt.Errorf("failed to download telegram file: %w", err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read telegram file: %w", err)
		}
		return data, nil
	}
}
