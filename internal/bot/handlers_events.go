package bot

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/novatangle/donorbot/core/telegram/callbacks"
	"github.com/novatangle/donorbot/core/telegram/format"
	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/internal/domain"
)

// handleEventList shows upcoming donation days.
func (b *Bot) handleEventList(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	events, err := b.svc.Events.Upcoming(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	if len(events) == 0 {
		return tghelpers.SendMD(c, msgNoEvents, backToMainKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("📅 *Ближайшие Дни донора*\n\nВыберите удобную дату:\n")
	return tghelpers.SendMD(c, sb.String(), eventsKeyboard(events))
}

// handleEventSelect shows the confirmation screen for a chosen event.
func (b *Bot) handleEventSelect(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	eventID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)

	event, already, err := b.svc.Events.Select(ctx, u.ID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendMD(c, msgEventGone, backToMainKeyboard())
		}
		return tghelpers.SendMD(c, msgFailure)
	}
	if already {
		return tghelpers.SendMD(c, msgAlreadyRegistered, backToMainKeyboard())
	}
	return tghelpers.SendMD(c, eventConfirmText(event, u.UserType), eventConfirmKeyboard(event.ID))
}

// eventConfirmText renders the confirmation screen: date, center, the
// donor's category, and the extra-registration note for external donors.
func eventConfirmText(event *domain.Event, userType domain.UserType) string {
	var sb strings.Builder
	sb.WriteString("📅 *День донора*\n\n")
	sb.WriteString(fmt.Sprintf("🗓 Дата: %s\n", event.Date.Format("02.01.2006 15:04")))
	sb.WriteString(fmt.Sprintf("🏥 Центр крови: %s\n", event.CenterShortName))
	sb.WriteString(fmt.Sprintf("👤 Ваш статус: %s\n", userType.Label()))
	if userType == domain.UserTypeExternal {
		sb.WriteString("\n❗️ Для внешних доноров требуется дополнительная регистрация.\n")
	}
	sb.WriteString("\nПодтвердите запись:")
	return sb.String()
}

// handleEventConfirm creates the registration.
func (b *Bot) handleEventConfirm(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	eventID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)

	event, err := b.svc.Events.Confirm(ctx, u.ID, eventID)
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return tghelpers.SendMD(c, msgAlreadyRegistered, backToMainKeyboard())
	case errors.Is(err, domain.ErrNotFound):
		return tghelpers.SendMD(c, msgEventGone, backToMainKeyboard())
	case err != nil:
		return tghelpers.SendMD(c, msgFailure)
	}
	return tghelpers.SendMD(c, eventRegisteredText(event, u.UserType), backToMainKeyboard())
}

// eventRegisteredText renders the success message. Only external donors get
// the extra-registration link; students and employees are registered through
// the university lists.
func eventRegisteredText(event *domain.Event, userType domain.UserType) string {
	text := msgEventRegistered
	if userType == domain.UserTypeExternal {
		if link := format.DerefString(event.ExternalRegistrationLink, ""); link != "" {
			text += fmt.Sprintf("\n\n🔗 Дополнительная регистрация: %s", link)
		}
	}
	return text
}

// sendPendingSurveys prompts for attendance on past events the next time
// the user shows up. Best effort; a failed lookup never blocks the menu.
func (b *Bot) sendPendingSurveys(c tele.Context, userID int64) error {
	ctx := tghelpers.BuildContext(c)
	surveys, err := b.svc.Events.PendingSurveys(ctx, userID)
	if err != nil {
		return nil
	}
	for _, sv := range surveys {
		text := fmt.Sprintf("%s\n\n🗓 %s - %s", msgNoShowSurvey,
			sv.EventDate.Format("02.01.2006"), sv.CenterShortName)
		if err := tghelpers.SendMD(c, text, noShowKeyboard(sv.RegistrationID)); err != nil {
			return err
		}
	}
	return nil
}

// handleAttended records a positive attendance survey answer. The payload
// carries the registration id; the service scopes it to the caller.
func (b *Bot) handleAttended(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	regID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.svc.Events.ConfirmAttendance(ctx, u.ID, regID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendMD(c, msgUnknownAction)
		}
		return tghelpers.SendMD(c, msgFailure)
	}
	return tghelpers.SendMD(c, "❤️ Спасибо за донацию!", backToMainKeyboard())
}

// handleNoShow records a no-show reason. The payload is "<regID>|<reason>";
// the service scopes the registration id to the caller.
func (b *Bot) handleNoShow(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 2 {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	regID, err := parsePayloadID(parts[0])
	if err != nil {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)

	err = b.svc.Events.ReportNoShow(ctx, u.ID, regID, domain.NoShowReason(parts[1]))
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		return tghelpers.SendMD(c, msgUnknownAction)
	case err != nil:
		return tghelpers.SendMD(c, msgFailure)
	}
	return tghelpers.SendMD(c, msgNoShowThanks, backToMainKeyboard())
}
