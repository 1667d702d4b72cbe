package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/navikon/atlasbot/internal/apperr"
	"github.com/navikon/atlasbot/internal/directory"
	"github.com/navikon/atlasbot/internal/models"
	"gopkg.in/telebot.v4"
)

// Message-handling outcomes recorded in metrics.
const (
	outcomeDirectory = "directory"
	outcomeFallback  = "fallback"
	outcomeError     = "error"
)

// startHandler processes the /start command.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/start").Inc()
	b.log.Info("User started the bot", "id", ctx.Sender().ID, "username", ctx.Sender().Username)

	return ctx.Send("Привет! Я ассистент компании Навикон. Напиши мне сообщение — отвечу.")
}

// clearHandler resets the sender's conversation history.
func (b *Bot) clearHandler(ctx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/clear").Inc()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := b.sessions.Clear(timeoutCtx, identityKey(ctx)); err != nil {
		b.log.Error("Failed to clear session", "id", ctx.Sender().ID, "error", err)
		return ctx.Send(apperr.UserMessage(apperr.Database(err)))
	}

	return ctx.Send("Контекст очищен.")
}

// employeesHandler lists the whole directory, one employee per line.
func (b *Bot) employeesHandler(ctx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/employees").Inc()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	start := time.Now()
	employees, err := b.employees.ListEmployees(timeoutCtx)
	b.metrics.DBQueryDuration.WithLabelValues("list_employees").Observe(time.Since(start).Seconds())
	if err != nil {
		b.log.Error("Failed to list employees", "error", err)
		return ctx.Send(apperr.UserMessage(apperr.Database(err)))
	}

	if len(employees) == 0 {
		return ctx.Send("Список сотрудников пуст.")
	}

	lines := make([]string, 0, len(employees))
	for _, emp := range employees {
		line := emp.FullName()
		if emp.Position != "" {
			line += " (" + emp.Position + ")"
		}
		if emp.HasBirthday() {
			line += fmt.Sprintf(" 🎂 %d.%d", *emp.BirthdayDay, *emp.BirthdayMonth)
		}
		lines = append(lines, line)
	}

	return ctx.Send(strings.Join(lines, "\n"))
}

// textHandler processes every free-text message: the rate limiter has
// already admitted it, the classifier decides whether the directory pipeline
// applies, and everything unhandled goes to the conversational fallback.
func (b *Bot) textHandler(tCtx telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	text := tCtx.Text()

	if directory.IsDirectoryQuery(text) {
		start := time.Now()
		result, err := b.resolver.Resolve(ctx, text)
		b.metrics.DBQueryDuration.WithLabelValues("resolve").Observe(time.Since(start).Seconds())
		if err != nil {
			b.metrics.MessagesHandled.WithLabelValues(outcomeError).Inc()
			b.log.Error("Failed to resolve directory query", "error", err)
			return tCtx.Send(apperr.UserMessage(err))
		}
		if result.Handled {
			b.metrics.MessagesHandled.WithLabelValues(outcomeDirectory).Inc()
			return tCtx.Send(result.Text)
		}
	}

	return b.fallbackReply(ctx, tCtx, text)
}

// fallbackReply appends the user turn to the session, asks the fallback
// collaborator for a reply with the bounded history as context and saves the
// session. A failed turn ends without any partial session write.
func (b *Bot) fallbackReply(ctx context.Context, tCtx telebot.Context, text string) error {
	sessionID := identityKey(tCtx)
	history := b.sessions.Get(ctx, sessionID)

	// Commands are never part of the conversation context.
	if text != "" && !strings.HasPrefix(text, "/") {
		history = append(history, models.Message{Role: models.RoleUser, Content: text})
	}
	history = b.sessions.Truncate(history)

	_ = tCtx.Notify(telebot.Typing)

	start := time.Now()
	reply, err := b.fallback.Chat(ctx, b.systemPrompt, history)
	b.metrics.FallbackDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		b.metrics.MessagesHandled.WithLabelValues(outcomeError).Inc()
		b.log.Error("Fallback completion failed", "session_id", sessionID, "error", err)
		return tCtx.Send(apperr.UserMessage(err))
	}

	history = append(history, models.Message{Role: models.RoleAssistant, Content: reply})
	b.sessions.Save(ctx, sessionID, history)
	b.metrics.MessagesHandled.WithLabelValues(outcomeFallback).Inc()

	return tCtx.Send(reply)
}
