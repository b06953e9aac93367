package bot

import (
	"context"
	"errors"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/novatangle/donorbot/core/telegram"
)

// ErrNotifierUnbound is returned when a delivery is attempted before the bot
// instance exists.
var ErrNotifierUnbound = errors.New("notifier: bot not bound yet")

// TeleNotifier delivers service-initiated messages (answer broadcasts,
// admin mailings) to arbitrary chats. The bot instance is created inside the
// runtime, so the notifier captures it from the first handled update.
type TeleNotifier struct {
	api atomic.Pointer[tele.Bot]
}

// NewTeleNotifier returns an unbound notifier.
func NewTeleNotifier() *TeleNotifier {
	return &TeleNotifier{}
}

// Bind stores the bot instance. Safe to call on every update.
func (n *TeleNotifier) Bind(bot *tele.Bot) {
	if bot != nil {
		n.api.Store(bot)
	}
}

// Notify sends Markdown text to the chat synchronously, so callers can count
// delivery failures per recipient.
func (n *TeleNotifier) Notify(_ context.Context, telegramID int64, text string) error {
	bot := n.api.Load()
	if bot == nil {
		return ErrNotifierUnbound
	}
	_, err := bot.Send(&tele.User{ID: telegramID}, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}

// BindMiddleware captures the bot instance from handled updates.
func (n *TeleNotifier) BindMiddleware() coretelegram.Middleware {
	return coretelegram.Middleware{
		Name: "notifier_bind",
		Use: func(next tele.HandlerFunc) tele.HandlerFunc {
			return func(c tele.Context) error {
				if b, ok := c.Bot().(*tele.Bot); ok {
					n.Bind(b)
				}
				return next(c)
			}
		},
	}
}
