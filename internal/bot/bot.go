package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/navikon/atlasbot/internal/directory"
	"github.com/navikon/atlasbot/internal/metrics"
	"github.com/navikon/atlasbot/internal/models"
	"github.com/navikon/atlasbot/internal/ratelimit"
	"github.com/navikon/atlasbot/internal/repository"
	"github.com/navikon/atlasbot/internal/session"
	"gopkg.in/telebot.v4"
)

// handlerTimeout bounds the store and fallback calls made for one message.
const handlerTimeout = 30 * time.Second

// FallbackClient is the conversational collaborator invoked for messages the
// directory resolver does not handle.
type FallbackClient interface {
	Chat(ctx context.Context, systemPrompt string, history []models.Message) (string, error)
}

// Bot contains the bot API instance and other information.
type Bot struct {
	bot          *telebot.Bot
	log          *slog.Logger
	employees    repository.EmployeeManager
	resolver     *directory.Resolver
	sessions     *session.Store
	limiter      *ratelimit.Limiter
	fallback     FallbackClient
	metrics      *metrics.Metrics
	systemPrompt string
	adminIDs     map[int64]struct{}
}

// NewBot creates a new bot with the given token and wires the message
// pipeline: rate limiter, classifier, resolver, session store and fallback.
func NewBot(
	log *slog.Logger,
	employees repository.EmployeeManager,
	resolver *directory.Resolver,
	sessions *session.Store,
	limiter *ratelimit.Limiter,
	fallback FallbackClient,
	appMetrics *metrics.Metrics,
	token string,
	poller time.Duration,
	systemPrompt string,
	adminIDs []int64,
) (*Bot, error) {
	tgBot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", tgBot.Me.Username)

	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	botInstance := &Bot{
		bot:          tgBot,
		log:          log,
		employees:    employees,
		resolver:     resolver,
		sessions:     sessions,
		limiter:      limiter,
		fallback:     fallback,
		metrics:      appMetrics,
		systemPrompt: systemPrompt,
		adminIDs:     admins,
	}

	botInstance.registerRoutes()

	return botInstance, nil
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// registerRoutes configures all routes (commands). The rate limiter gates
// every update before anything else runs.
func (b *Bot) registerRoutes() {
	b.bot.Use(b.RateLimitMiddleware)

	// Public routes.
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/clear", b.clearHandler)
	b.bot.Handle("/employees", b.employeesHandler)
	b.bot.Handle(telebot.OnText, b.textHandler)

	// Admin routes.
	b.bot.Handle("/addemployee", b.AdminMiddleware(b.addEmployeeHandler))
	b.bot.Handle("/export", b.AdminMiddleware(b.exportHandler))
}
