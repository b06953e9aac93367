package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/core/telegram/ui"
)

// fallbacks answers updates no command, callback, or FSM state claims.
type fallbacks struct{}

var _ ui.FallbackProvider = fallbacks{}

func (fallbacks) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendMD(c, msgUnknownText)
	}
}

func (fallbacks) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendMD(c, msgUnknownText)
	}
}

func (fallbacks) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
}
