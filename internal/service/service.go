// Package service holds the application logic of the donor program.
// Services depend on narrow store interfaces so tests can run on small
// hand-written fakes instead of a live database.
package service

import "context"

// Notifier delivers a message to a Telegram identity outside of an update
// handler, used by the answer broadcast and admin mailings.
type Notifier interface {
	Notify(ctx context.Context, telegramID int64, text string) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, telegramID int64, text string) error

// Notify calls the underlying function.
func (f NotifierFunc) Notify(ctx context.Context, telegramID int64, text string) error {
	return f(ctx, telegramID, text)
}
