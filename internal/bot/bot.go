// Package bot wires the access-gated redemption engine to Telegram: command
// and menu handlers, the conversation dispatch, and the bot runtime.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"gatebot/config"
	"gatebot/internal/access"
	"gatebot/internal/engine"
	"gatebot/internal/fsm"
	"gatebot/internal/logger"
	"gatebot/internal/storage"
)

// Bot is the assembled Telegram application.
type Bot struct {
	cfg     *config.Config
	tb      *tele.Bot
	store   *storage.Registry
	policy  *access.Policy
	fsm     *fsm.Manager
	engine  *engine.Engine
	channel *tele.Chat
	log     *slog.Logger
}

// New builds the Telegram bot, resolves the gating channel, and registers
// middleware and routes.
func New(cfg *config.Config, store *storage.Registry) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: buildPoller(cfg),
		Client: buildHTTPClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("bot initialization failed: %w", err)
	}

	channel, err := tb.ChatByUsername(cfg.Telegram.Channel)
	if err != nil {
		return nil, fmt.Errorf("resolve gating channel %s: %w", cfg.Telegram.Channel, err)
	}

	b := &Bot{
		cfg:     cfg,
		tb:      tb,
		store:   store,
		policy:  access.NewPolicy(access.NewOracle(tb, channel), store),
		fsm:     fsm.NewManager(),
		engine:  engine.New(store),
		channel: channel,
		log:     logger.TG,
	}
	b.registerRoutes()
	return b, nil
}

func (b *Bot) registerRoutes() {
	b.tb.Use(recoverMiddleware)
	if interval := time.Duration(b.cfg.RateLimit.IntervalMS) * time.Millisecond; interval > 0 {
		b.tb.Use(rateLimitMiddleware(interval))
	}
	b.tb.Use(loggingMiddleware)

	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/myid", b.handleMyID)
	b.tb.Handle(&btnCheckSub, b.handleCheckSub)
	b.tb.Handle(tele.OnText, b.handleText)
}

// Run starts the bot and blocks until the context is cancelled or the poller
// stops on its own.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("bot started",
		slog.String("event", "tg.start"),
		slog.String("mode", b.cfg.Telegram.RunMode),
		slog.String("channel", b.cfg.Telegram.Channel),
	)

	done := make(chan struct{})
	go func() {
		b.tb.Start()
		close(done)
	}()

	select {
	case <-ctx.Done():
		b.tb.Stop()
		<-done
		b.log.Info("bot stopped", slog.String("event", "tg.stop"))
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-done:
		return nil
	}
}
