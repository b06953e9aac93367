// Package bot wires the donor program conversations on top of the shared
// Telegram framework: registration, event sign-up, Q&A, statistics, and the
// admin panel.
package bot

import (
	"context"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/novatangle/donorbot/core/telegram/callbacks"
	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/core/telegram/state"
	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/service"
	"github.com/novatangle/donorbot/internal/validate"
)

// Services groups everything the handlers call into.
type Services struct {
	Registration *service.RegistrationService
	Events       *service.EventService
	Questions    *service.QuestionService
	Stats        *service.StatsService
	Admin        *service.AdminService
	Export       *service.ExportService
	Importer     *service.ImportService
	Info         *service.InfoService
}

// Bot holds handler dependencies.
type Bot struct {
	fsm      state.Manager
	svc      Services
	notifier *TeleNotifier
}

// New constructs the handler set.
func New(fsm state.Manager, svc Services, notifier *TeleNotifier) *Bot {
	return &Bot{fsm: fsm, svc: svc, notifier: notifier}
}

// Notifier returns the outbound notifier used by the services.
func (b *Bot) Notifier() *TeleNotifier {
	return b.notifier
}

// currentUser resolves the sender to a consented account. When the sender is
// not registered, the not-registered prompt is sent and nil is returned.
func (b *Bot) currentUser(c tele.Context) (*domain.User, error) {
	ctx := tghelpers.BuildContext(c)
	u, ok, err := b.svc.Registration.Registered(ctx, c.Sender().ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, tghelpers.SendMD(c, msgNotRegistered)
	}
	return u, nil
}

// requireAdmin guards admin-only callbacks. Commands go through the router's
// admin middleware; callbacks check here.
func (b *Bot) requireAdmin(c tele.Context) bool {
	ctx := tghelpers.BuildContext(c)
	if b.svc.Admin.IsAdmin(ctx, c.Sender().ID) {
		return true
	}
	_ = tghelpers.SendMD(c, msgPermissionDenied)
	return false
}

// resolveAdmin backs the command router's admin gate.
func (b *Bot) resolveAdmin(telegramID int64) bool {
	return b.svc.Admin.IsAdmin(context.Background(), telegramID)
}

func (b *Bot) sendMainMenu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	isAdmin := b.svc.Admin.IsAdmin(ctx, c.Sender().ID)
	return tghelpers.SendMD(c, msgMainMenu, mainMenuKeyboard(isAdmin))
}

func callbackPayload(c tele.Context) string {
	return callbacks.CallbackPayload(c)
}

func parsePayloadID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func validName(name string) bool {
	return validate.FullName(name)
}

func validGroup(group string) bool {
	return validate.GroupNumber(group)
}
