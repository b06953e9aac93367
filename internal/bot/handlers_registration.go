package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/core/telegram/keyboard"
	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/service"
)

// handleStart greets known donors and starts the registration conversation
// for everyone else.
func (b *Bot) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	b.fsm.Clear(userID)

	u, ok, err := b.svc.Registration.Registered(ctx, userID)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	if ok {
		if err := tghelpers.SendMD(c, fmt.Sprintf(msgWelcomeBack, u.FullName)); err != nil {
			return err
		}
		if err := b.sendMainMenu(c); err != nil {
			return err
		}
		return b.sendPendingSurveys(c, u.ID)
	}
	if u != nil {
		// Known account without consent: jump straight to the consent step.
		b.fsm.SetTemp(userID, tmpUserID, u.ID)
		b.fsm.SetState(userID, StateAwaitingConsent)
		return tghelpers.SendMD(c, msgConsentForm, consentKeyboard())
	}

	if err := tghelpers.SendMD(c, msgWelcome); err != nil {
		return err
	}
	b.fsm.SetState(userID, StateAwaitingPhone)
	return tghelpers.SendMD(c, msgRequestPhone, phoneRequestKeyboard())
}

// handleContact consumes the shared phone contact. The route is gated to
// the phone step by the state middleware.
func (b *Bot) handleContact(c tele.Context) error {
	userID := c.Sender().ID
	contact := c.Message().Contact
	if contact == nil {
		return nil
	}
	// Forwarded contacts of other people are not proof of ownership.
	if contact.UserID != 0 && contact.UserID != userID {
		return tghelpers.SendMD(c, msgRequestPhone, phoneRequestKeyboard())
	}

	return b.submitPhone(c, contact.PhoneNumber)
}

// handlePhoneInput re-prompts on typed text. The number must arrive as a
// shared contact so Telegram vouches for ownership.
func (b *Bot) handlePhoneInput(c tele.Context) error {
	return tghelpers.SendMD(c, msgRequestPhone, phoneRequestKeyboard())
}

// submitPhone advances the conversation according to the phone outcome.
func (b *Bot) submitPhone(c tele.Context, raw string) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	outcome, phone, u, err := b.svc.Registration.SubmitPhone(ctx, userID, raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return tghelpers.SendMD(c, msgRequestPhone, phoneRequestKeyboard())
		}
		return tghelpers.SendMD(c, msgFailure)
	}

	switch outcome {
	case service.PhoneLinkedConsented:
		b.fsm.Clear(userID)
		if err := tghelpers.SendText(c, fmt.Sprintf("👋 Добро пожаловать, %s!", u.FullName),
			&tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()}); err != nil {
			return err
		}
		return b.sendMainMenu(c)
	case service.PhoneLinkedPending:
		b.fsm.SetTemp(userID, tmpUserID, u.ID)
		b.fsm.SetState(userID, StateAwaitingConsent)
		return tghelpers.SendMD(c, msgConsentForm, consentKeyboard())
	default:
		b.fsm.SetTemp(userID, tmpPhone, phone)
		b.fsm.SetState(userID, StateAwaitingName)
		return tghelpers.SendMD(c, msgRequestName, keyboard.RemoveKeyboard())
	}
}

// handleNameInput validates the full name step.
func (b *Bot) handleNameInput(c tele.Context) error {
	userID := c.Sender().ID
	name := c.Text()

	// Validation happens again in the service; this check only drives the
	// re-prompt before the conversation moves on.
	if !validName(name) {
		return tghelpers.SendMD(c, msgBadName)
	}
	b.fsm.SetTemp(userID, tmpName, name)
	b.fsm.SetState(userID, StateAwaitingCategory)
	return tghelpers.SendMD(c, msgRequestUserType, userTypeKeyboard())
}

// handleUserTypeCallback consumes the category button.
func (b *Bot) handleUserTypeCallback(c tele.Context) error {
	userID := c.Sender().ID
	if b.fsm.GetState(userID) != StateAwaitingCategory {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	userType := domain.UserType(callbackPayload(c))
	if !userType.Valid() {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	b.fsm.SetTemp(userID, tmpUserType, string(userType))

	if userType == domain.UserTypeStudent {
		b.fsm.SetState(userID, StateAwaitingGroup)
		return tghelpers.SendMD(c, msgRequestGroup)
	}
	b.fsm.SetState(userID, StateAwaitingConsent)
	return tghelpers.SendMD(c, msgConsentForm, consentKeyboard())
}

// handleGroupInput validates the student group step.
func (b *Bot) handleGroupInput(c tele.Context) error {
	userID := c.Sender().ID
	group := c.Text()
	if !validGroup(group) {
		return tghelpers.SendMD(c, msgBadGroup)
	}
	b.fsm.SetTemp(userID, tmpGroup, group)
	b.fsm.SetState(userID, StateAwaitingConsent)
	return tghelpers.SendMD(c, msgConsentForm, consentKeyboard())
}

// handleCategoryReprompt re-sends the category keyboard on stray text.
func (b *Bot) handleCategoryReprompt(c tele.Context) error {
	return tghelpers.SendMD(c, msgRequestUserType, userTypeKeyboard())
}

// handleConsentReprompt re-sends the consent form on stray text.
func (b *Bot) handleConsentReprompt(c tele.Context) error {
	return tghelpers.SendMD(c, msgConsentForm, consentKeyboard())
}

// handleConsentYes finishes registration, either by flipping consent on a
// re-linked account or by persisting the freshly collected profile.
func (b *Bot) handleConsentYes(c tele.Context) error {
	userID := c.Sender().ID
	if b.fsm.GetState(userID) != StateAwaitingConsent {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)

	if existingID, ok := b.fsm.GetTempInt64(userID, tmpUserID); ok {
		if err := b.svc.Registration.ConfirmConsent(ctx, existingID); err != nil {
			return tghelpers.SendMD(c, msgFailure)
		}
		b.fsm.Clear(userID)
		if err := tghelpers.SendMD(c, msgRegistrationDone); err != nil {
			return err
		}
		return b.sendMainMenu(c)
	}

	in := service.RegistrationInput{TelegramID: userID}
	if v, ok := b.fsm.GetTemp(userID, tmpPhone); ok {
		in.Phone, _ = v.(string)
	}
	if v, ok := b.fsm.GetTemp(userID, tmpName); ok {
		in.FullName, _ = v.(string)
	}
	if v, ok := b.fsm.GetTemp(userID, tmpUserType); ok {
		s, _ := v.(string)
		in.UserType = domain.UserType(s)
	}
	if v, ok := b.fsm.GetTemp(userID, tmpGroup); ok {
		in.Group, _ = v.(string)
	}

	if _, err := b.svc.Registration.Complete(ctx, in); err != nil {
		b.fsm.Clear(userID)
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return tghelpers.SendMD(c, msgNotRegistered)
		}
		return tghelpers.SendMD(c, msgFailure)
	}
	b.fsm.Clear(userID)
	if err := tghelpers.SendMD(c, msgRegistrationDone); err != nil {
		return err
	}
	return b.sendMainMenu(c)
}

// handleConsentNo aborts the conversation. Nothing was persisted for a new
// user, so declining leaves no trace.
func (b *Bot) handleConsentNo(c tele.Context) error {
	b.fsm.Clear(c.Sender().ID)
	return tghelpers.SendMD(c, msgConsentDeclined)
}
