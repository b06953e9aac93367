package bot

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/novatangle/donorbot/core/telegram/callbacks"
	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/internal/domain"
)

// handleAskQuestion starts the question conversation.
func (b *Bot) handleAskQuestion(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	b.fsm.SetState(c.Sender().ID, StateAwaitingQuestion)
	return tghelpers.SendMD(c, msgAskQuestion)
}

// handleQuestionInput stores the typed question.
func (b *Bot) handleQuestionInput(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if _, err := b.svc.Questions.Ask(ctx, u.ID, c.Text()); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return tghelpers.SendMD(c, msgAskQuestion)
		}
		return tghelpers.SendMD(c, msgFailure)
	}
	b.fsm.ClearState(c.Sender().ID)
	return tghelpers.SendMD(c, msgQuestionReceived, backToMainKeyboard())
}

// handleAdminQuestions shows the open question queue with answer buttons.
func (b *Bot) handleAdminQuestions(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	questions, err := b.svc.Questions.Queue(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	if len(questions) == 0 {
		return tghelpers.SendMD(c, msgNoOpenQuestions, adminMenuKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("❓ *Открытые вопросы*\n\n")
	for i, q := range questions {
		sb.WriteString(fmt.Sprintf("*#%d* (%s)\n%s\n\n", i+1, q.CreatedAt.Format("02.01.2006"), q.QuestionText))
	}
	return tghelpers.SendMD(c, sb.String(), answerQueueKeyboard(questions))
}

// handleAdminQuestionDigest shows the newest open questions without answer
// buttons, for a quick overview of what is piling up.
func (b *Bot) handleAdminQuestionDigest(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	questions, err := b.svc.Questions.Digest(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	if len(questions) == 0 {
		return tghelpers.SendMD(c, msgNoOpenQuestions, adminMenuKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("🗂 *Последние открытые вопросы*\n\n")
	for _, q := range questions {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", q.CreatedAt.Format("02.01.2006"), q.QuestionText))
	}
	return tghelpers.SendMD(c, sb.String(), adminMenuKeyboard())
}

// handleAnswerQuestion starts the answer conversation for one question.
func (b *Bot) handleAnswerQuestion(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	questionID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)
	question, err := b.svc.Questions.Question(ctx, questionID)
	if err != nil {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	if question.Answered() {
		return tghelpers.SendMD(c, "ℹ️ На этот вопрос уже ответили.", adminMenuKeyboard())
	}

	userID := c.Sender().ID
	b.fsm.SetTemp(userID, tmpQuestionID, questionID)
	b.fsm.SetState(userID, StateAwaitingAnswer)
	return tghelpers.SendMD(c, fmt.Sprintf("❓ *Вопрос:*\n%s\n\n%s", question.QuestionText, msgAnswerPrompt))
}

// handleAnswerInput stores the answer and broadcasts it.
func (b *Bot) handleAnswerInput(c tele.Context) error {
	userID := c.Sender().ID
	admin, err := b.currentUser(c)
	if err != nil || admin == nil {
		return err
	}
	questionID, ok := b.fsm.GetTempInt64(userID, tmpQuestionID)
	if !ok {
		b.fsm.ClearState(userID)
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)

	report, err := b.svc.Questions.Answer(ctx, questionID, admin.ID, c.Text())
	switch {
	case errors.Is(err, domain.ErrQuestionAnswered):
		b.fsm.Clear(userID)
		return tghelpers.SendMD(c, "ℹ️ На этот вопрос уже ответили.", adminMenuKeyboard())
	case errors.Is(err, domain.ErrInvalidInput):
		return tghelpers.SendMD(c, msgAnswerPrompt)
	case errors.Is(err, domain.ErrNotFound):
		b.fsm.Clear(userID)
		return tghelpers.SendMD(c, msgUnknownAction)
	case err != nil:
		b.fsm.Clear(userID)
		return tghelpers.SendMD(c, msgFailure)
	}

	b.fsm.Clear(userID)
	summary := fmt.Sprintf("✅ Ответ отправлен.\n\nДоставлено подписчикам: %d из %d.", report.Delivered, report.Recipients)
	if !report.DirectDelivered {
		summary += "\n⚠️ Автору вопроса доставить не удалось."
	}
	return tghelpers.SendMD(c, summary, adminMenuKeyboard())
}
