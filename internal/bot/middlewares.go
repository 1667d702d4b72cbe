package bot

import (
	"strconv"

	"github.com/navikon/atlasbot/internal/apperr"
	"gopkg.in/telebot.v4"
)

// anonymousKey is the shared rate-limit key for updates without a sender.
const anonymousKey = "anonymous"

// RateLimitMiddleware rejects over-limit requests before classification,
// session load or any store access happens.
func (b *Bot) RateLimitMiddleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(ctx telebot.Context) error {
		key := identityKey(ctx)

		allowed, retryAfter := b.limiter.Allow(key)
		if !allowed {
			b.metrics.RateLimited.Inc()
			b.log.Info("Request rate limited", "key", key, "retry_after", retryAfter)
			return ctx.Send(apperr.UserMessage(apperr.RateLimited(retryAfter)))
		}

		return next(ctx)
	}
}

// AdminMiddleware restricts a handler to the configured admin user IDs.
func (b *Bot) AdminMiddleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(ctx telebot.Context) error {
		sender := ctx.Sender()
		if sender == nil {
			return ctx.Send(apperr.UserMessage(apperr.Authorization()))
		}

		if _, ok := b.adminIDs[sender.ID]; !ok {
			b.log.Info("Access denied", "username", sender.Username, "id", sender.ID)
			return ctx.Send(apperr.UserMessage(apperr.Authorization()))
		}

		return next(ctx)
	}
}

// identityKey derives the per-user key used for rate limiting and sessions:
// the sender id, falling back to the chat id, falling back to a shared key.
func identityKey(ctx telebot.Context) string {
	if sender := ctx.Sender(); sender != nil {
		return strconv.FormatInt(sender.ID, 10)
	}
	if chat := ctx.Chat(); chat != nil {
		return strconv.FormatInt(chat.ID, 10)
	}
	return anonymousKey
}
