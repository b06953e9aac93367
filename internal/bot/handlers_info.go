package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/novatangle/donorbot/core/logger"
	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/internal/domain"
)

const textBloodCenters = `📍 *Центры донорства*

🏥 *Центр крови ФМБА России*
Щукинская ул., 6к2, Москва
Пн-Пт: 08:30-13:30

🏥 *Центр крови им. О.К. Гаврилова*
ул. Поликарпова, 14к2, Москва
Пн-Сб: 08:00-14:00

Не забудьте паспорт! Иногородним донорам нужна регистрация в регионе центра.`

const textBenefits = `🎁 *Льготы и скидки для доноров*

🎓 *Студентам:*
• Два дня отдыха за каждую донацию
• Повышенная стипендия для активных доноров

👨‍💼 *Сотрудникам:*
• Два оплачиваемых дня отдыха (ст. 186 ТК РФ)

🏪 *Всем донорам:*
• Скидки в кафе и магазинах-партнерах
• Бесплатные билеты на мероприятия
• Почетный донор России: ежегодная выплата и льготы`

const textNotifications = `🔔 *Уведомления*

Бот присылает:
• Напоминание накануне Дня донора
• Опрос после мероприятия
• Ответы организаторов на ваши вопросы
• Объявления о новых Днях донора

Отключить уведомления можно, заблокировав бота. Отдельная настройка пока в разработке.`

const textContacts = `📞 *Контакты организаторов*

Штаб донорского движения:
• Телеграм: @donor_org
• Почта: donor@example.org

По вопросам донаций и медотводов пишите через кнопку «Задать вопрос» - так вопрос точно не потеряется.`

// handleInfoMenu shows the editable info sections.
func (b *Bot) handleInfoMenu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sections, err := b.svc.Info.Sections(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	return tghelpers.SendMD(c, msgInfoMenu, infoMenuKeyboard(sections))
}

// sectionBoneMarrow matches the seeded bone marrow section key.
const sectionBoneMarrow = "bone_marrow"

// handleInfoSection renders one section by the key in the payload. The bone
// marrow section additionally offers the registry membership button.
func (b *Bot) handleInfoSection(c tele.Context) error {
	key := callbackPayload(c)
	ctx := tghelpers.BuildContext(c)
	section, err := b.svc.Info.Section(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendMD(c, "❌ Информация не найдена.", backToMainKeyboard())
		}
		return tghelpers.SendMD(c, msgFailure)
	}
	text := fmt.Sprintf("*%s*\n\n%s", section.Title, section.Content)
	if section.SectionKey == sectionBoneMarrow {
		return tghelpers.SendMD(c, text, boneMarrowKeyboard())
	}
	return tghelpers.SendMD(c, text, backToMainKeyboard())
}

// handleBoneMarrowJoin records the self-reported registry membership.
func (b *Bot) handleBoneMarrowJoin(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	if u.BoneMarrowRegistry {
		return tghelpers.SendMD(c, msgBoneMarrowAlready, backToMainKeyboard())
	}
	ctx := tghelpers.BuildContext(c)
	if err := b.svc.Registration.JoinBoneMarrowRegistry(ctx, u.ID); err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	return tghelpers.SendMD(c, msgBoneMarrowJoined, backToMainKeyboard())
}

func (b *Bot) handleBloodCenters(c tele.Context) error {
	return tghelpers.SendMD(c, textBloodCenters, backToMainKeyboard())
}

func (b *Bot) handleBenefits(c tele.Context) error {
	return tghelpers.SendMD(c, textBenefits, backToMainKeyboard())
}

func (b *Bot) handleNotifications(c tele.Context) error {
	return tghelpers.SendMD(c, textNotifications, backToMainKeyboard())
}

func (b *Bot) handleContacts(c tele.Context) error {
	return tghelpers.SendMD(c, textContacts, backToMainKeyboard())
}

// handleFeedback starts the free-form feedback conversation.
func (b *Bot) handleFeedback(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	b.fsm.SetState(c.Sender().ID, StateAwaitingFeedback)
	return tghelpers.SendMD(c, msgFeedback)
}

// handleFeedbackInput acknowledges feedback. The text goes to the log only;
// there is no dedicated storage for it.
func (b *Bot) handleFeedbackInput(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendMD(c, msgFeedback)
	}
	ctx := tghelpers.BuildContext(c)
	logger.TG.InfoContext(ctx, "feedback received",
		slog.String("event", "feedback"),
		slog.Int64("user_id", userID),
		slog.String("text", text),
	)
	b.fsm.ClearState(userID)
	return tghelpers.SendMD(c, msgFeedbackReceived, backToMainKeyboard())
}

// handleHelp shows usage hints.
func (b *Bot) handleHelp(c tele.Context) error {
	text := `🆘 *Помощь*

/start - главное меню и регистрация
/events - ближайшие Дни донора
/profile - мой профиль
/ask - задать вопрос организаторам

Навигация по разделам - кнопками под сообщениями.`
	return tghelpers.SendMD(c, text)
}
