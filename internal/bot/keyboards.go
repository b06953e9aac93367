package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/novatangle/donorbot/core/telegram/keyboard"
	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/repository"
)

// audienceAll marks a broadcast addressed to every consented user.
const audienceAll = "all"

// Callback uniques. Keys in the registry match these.
const (
	cbMainMenu        = "main_menu"
	cbProfile         = "profile"
	cbMyStats         = "my_stats"
	cbRegisterEvent   = "register_event"
	cbDonationHistory = "donation_history"
	cbDonorRanking    = "donor_ranking"
	cbInfoMenu        = "info_menu"
	cbInfoSection     = "info_section"
	cbBloodCenters    = "blood_centers"
	cbBenefits        = "benefits"
	cbNotifications   = "notifications"
	cbContacts        = "contacts"
	cbAskQuestion     = "ask_question"
	cbFeedback        = "feedback"
	cbBoneMarrowJoin  = "bone_marrow_join"

	cbUserType   = "user_type"
	cbConsentYes = "consent_yes"
	cbConsentNo  = "consent_no"

	cbEventSelect  = "event_select"
	cbEventConfirm = "event_confirm"
	cbAttended     = "attended"
	cbNoShow       = "no_show"

	cbAdminMenu        = "admin_menu"
	cbAdminEvents      = "admin_events"
	cbAdminCreateEvent = "admin_create_event"
	cbAdminListEvents  = "admin_list_events"
	cbAdminEventOff    = "admin_event_off"
	cbAdminInfo        = "admin_info"
	cbEditInfoSection  = "edit_info_section"
	cbAdminQuestions   = "admin_questions"
	cbQuestionDigest   = "question_digest"
	cbAnswerQuestion   = "answer_question"
	cbAdminBroadcast   = "admin_broadcast"
	cbBroadcastTo      = "broadcast_to"
	cbAdminStats       = "admin_stats"
	cbAdminEventStats  = "admin_event_stats"
	cbAdminDonorStats  = "admin_donor_stats"
	cbAdminExport      = "admin_export"
	cbAdminImport      = "admin_import"
)

func btn(text, unique string, data ...string) keyboard.InlineBtn {
	b := keyboard.InlineBtn{Text: text, Unique: unique}
	if len(data) > 0 {
		b.Data = data[0]
	}
	return b
}

func mainMenuKeyboard(isAdmin bool) *tele.ReplyMarkup {
	rows := [][]keyboard.InlineBtn{
		{btn("👤 Мой профиль", cbProfile), btn("📊 Моя статистика", cbMyStats)},
		{btn("📅 Записаться на донацию", cbRegisterEvent)},
		{btn("🩸 История донаций", cbDonationHistory), btn("🏆 Рейтинг доноров", cbDonorRanking)},
		{btn("📍 Центры донорства", cbBloodCenters), btn("🎁 Льготы и скидки", cbBenefits)},
		{btn("ℹ️ Информация о донорстве", cbInfoMenu)},
		{btn("🔔 Уведомления", cbNotifications), btn("📞 Контакты", cbContacts)},
		{btn("❓ Задать вопрос", cbAskQuestion), btn("📝 Отзывы", cbFeedback)},
	}
	if isAdmin {
		rows = append(rows, []keyboard.InlineBtn{btn("🛠️ Панель администратора", cbAdminMenu)})
	}
	return keyboard.InlineButtonsRows(rows...)
}

func backToMainKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{btn("🔙 Главное меню", cbMainMenu)})
}

func phoneRequestKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	markup.Reply(markup.Row(markup.Contact("📱 Поделиться номером")))
	return markup
}

func userTypeKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("👨‍🎓 Студент", cbUserType, string(domain.UserTypeStudent)),
		btn("👨‍💼 Сотрудник", cbUserType, string(domain.UserTypeEmployee)),
		btn("🏠 Внешний донор", cbUserType, string(domain.UserTypeExternal)),
	})
}

func consentKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("✅ Согласен", cbConsentYes),
		btn("❌ Не согласен", cbConsentNo),
	})
}

func eventsKeyboard(events []domain.Event) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(events)+1)
	for _, e := range events {
		label := fmt.Sprintf("%s - %s", e.Date.Format("02.01.2006"), e.CenterShortName)
		buttons = append(buttons, btn(label, cbEventSelect, fmt.Sprintf("%d", e.ID)))
	}
	buttons = append(buttons, btn("🔙 Главное меню", cbMainMenu))
	return keyboard.InlineButtons(buttons)
}

func eventConfirmKeyboard(eventID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("✅ Подтвердить запись", cbEventConfirm, fmt.Sprintf("%d", eventID)),
		btn("🔙 К списку", cbRegisterEvent),
	})
}

// noShowKeyboard carries the registration id in every payload so the survey
// answer lands on exactly the surveyed registration.
func noShowKeyboard(registrationID int64) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("✅ Я был(а) на донации", cbAttended, fmt.Sprintf("%d", registrationID)),
		btn("🏥 Медотвод", cbNoShow, fmt.Sprintf("%d|%s", registrationID, domain.NoShowMedotved)),
		btn("👤 Личные причины", cbNoShow, fmt.Sprintf("%d|%s", registrationID, domain.NoShowPersonal)),
		btn("🚫 Не захотел", cbNoShow, fmt.Sprintf("%d|%s", registrationID, domain.NoShowUnwilling)),
	})
}

func infoMenuKeyboard(sections []domain.InfoSection) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(sections)+1)
	for _, s := range sections {
		buttons = append(buttons, btn(s.Title, cbInfoSection, s.SectionKey))
	}
	buttons = append(buttons, btn("🔙 Главное меню", cbMainMenu))
	return keyboard.InlineButtons(buttons)
}

func boneMarrowKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("🦴 Я вступил(а) в регистр ДКМ", cbBoneMarrowJoin),
		btn("🔙 Главное меню", cbMainMenu),
	})
}

func adminMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("📅 Управление событиями", cbAdminEvents),
		btn("❓ Ответить на вопросы", cbAdminQuestions),
		btn("📢 Рассылка сообщений", cbAdminBroadcast),
		btn("📝 Редактирование информации", cbAdminInfo),
		btn("📊 Статистика системы", cbAdminStats),
		btn("💾 Экспорт данных", cbAdminExport),
		btn("📋 Импорт доноров", cbAdminImport),
		btn("🔙 Выйти", cbMainMenu),
	})
}

func adminEventsKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("➕ Создать событие", cbAdminCreateEvent),
		btn("📋 Список событий", cbAdminListEvents),
		btn("🔙 Назад", cbAdminMenu),
	})
}

// adminEventListKeyboard offers a deactivation button per active event so a
// cancelled day can be pulled from the sign-up list.
func adminEventListKeyboard(events []repository.EventSummary) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(events)+2)
	for _, e := range events {
		if !e.IsActive {
			continue
		}
		label := fmt.Sprintf("⏸ Снять %s - %s", e.Date.Format("02.01.2006"), e.CenterShortName)
		buttons = append(buttons, btn(label, cbAdminEventOff, fmt.Sprintf("%d", e.ID)))
	}
	buttons = append(buttons,
		btn("➕ Создать событие", cbAdminCreateEvent),
		btn("🔙 Назад", cbAdminMenu),
	)
	return keyboard.InlineButtons(buttons)
}

func adminInfoKeyboard(sections []domain.InfoSection) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(sections)+1)
	for _, s := range sections {
		buttons = append(buttons, btn("✏️ "+s.Title, cbEditInfoSection, s.SectionKey))
	}
	buttons = append(buttons, btn("🔙 Назад", cbAdminMenu))
	return keyboard.InlineButtons(buttons)
}

func adminStatsKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("📊 Статистика по событиям", cbAdminEventStats),
		btn("👥 Статистика по донорам", cbAdminDonorStats),
		btn("📥 Выгрузить Excel", cbAdminExport),
		btn("🔙 Назад", cbAdminMenu),
	})
}

func answerQueueKeyboard(questions []domain.Question) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(questions)+1)
	for i, q := range questions {
		buttons = append(buttons, btn(fmt.Sprintf("💬 Ответить на вопрос #%d", i+1), cbAnswerQuestion, fmt.Sprintf("%d", q.ID)))
	}
	buttons = append(buttons,
		btn("🗂 Последние вопросы", cbQuestionDigest),
		btn("🔙 Назад", cbAdminMenu),
	)
	return keyboard.InlineButtons(buttons)
}

func broadcastAudienceKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		btn("👥 Всем", cbBroadcastTo, audienceAll),
		btn("👨‍🎓 Студентам", cbBroadcastTo, string(domain.UserTypeStudent)),
		btn("👨‍💼 Сотрудникам", cbBroadcastTo, string(domain.UserTypeEmployee)),
		btn("🏠 Внешним донорам", cbBroadcastTo, string(domain.UserTypeExternal)),
	})
}
