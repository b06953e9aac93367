package middleware

import tele "gopkg.in/telebot.v4"

// AdminResolver reports whether the Telegram identity currently holds admin
// rights. It is consulted on every invocation so revocations take effect
// immediately.
type AdminResolver func(telegramID int64) bool

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	Resolve  AdminResolver
	OnReject tele.HandlerFunc
}

// WithAdminCheck wraps a command handler enforcing admin-only execution when required.
func WithAdminCheck(opts AdminOptions, cmd struct {
	AdminOnly bool
	Handler   tele.HandlerFunc
}) tele.HandlerFunc {
	if !cmd.AdminOnly || opts.Resolve == nil {
		return cmd.Handler
	}
	return func(c tele.Context) error {
		if !opts.Resolve(c.Sender().ID) {
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
		return cmd.Handler(c)
	}
}

// AdminOnlyMiddleware ensures that only admin users can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.Resolve != nil && !opts.Resolve(c.Sender().ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
