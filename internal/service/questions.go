package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/novatangle/donorbot/core/logger"
	"github.com/novatangle/donorbot/core/telegram/format"
	"github.com/novatangle/donorbot/internal/domain"
)

const (
	digestLimit = 10
	queueLimit  = 5
)

// QuestionStore is the persistence surface of the Q&A flow.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, userID int64, text string) (int64, error)
	QuestionByID(ctx context.Context, id int64) (*domain.Question, error)
	UnansweredNewest(ctx context.Context, limit int) ([]domain.Question, error)
	UnansweredOldest(ctx context.Context, limit int) ([]domain.Question, error)
	AnswerQuestion(ctx context.Context, questionID, adminID int64, answer string) error
	AskerTelegramIDs(ctx context.Context, excludeUserID int64) ([]int64, error)
	UserByID(ctx context.Context, id int64) (*domain.User, error)
}

// AnswerReport summarizes one answer delivery.
type AnswerReport struct {
	Question        *domain.Question
	DirectDelivered bool
	Recipients      int
	Delivered       int
}

// QuestionService implements question capture and the answer broadcast.
type QuestionService struct {
	store  QuestionStore
	notify Notifier
	render func(question, answer string) string
}

// NewQuestionService wires the store, the notifier used for broadcast
// delivery, and the renderer that formats a Q&A pair for recipients.
func NewQuestionService(store QuestionStore, notify Notifier, render func(question, answer string) string) *QuestionService {
	if render == nil {
		// Question and answer are user input; escape them so stray
		// markdown characters never break the broadcast message.
		render = func(q, a string) string {
			if esc, err := format.EscapeMarkdown(q, format.MarkdownV1, ""); err == nil {
				q = esc
			}
			if esc, err := format.EscapeMarkdown(a, format.MarkdownV1, ""); err == nil {
				a = esc
			}
			return fmt.Sprintf("❓ %s\n\n💬 %s", q, a)
		}
	}
	return &QuestionService{store: store, notify: notify, render: render}
}

// Ask stores a free-form question verbatim.
func (s *QuestionService) Ask(ctx context.Context, userID int64, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, domain.ErrInvalidInput
	}
	id, err := s.store.CreateQuestion(ctx, userID, text)
	if err != nil {
		return 0, err
	}
	logger.SVCQuestions.InfoContext(ctx, "question stored",
		slog.String("event", "questions.ask"),
		slog.Int64("user_id", userID),
		slog.Int64("question_id", id),
	)
	return id, nil
}

// Question returns one question by id.
func (s *QuestionService) Question(ctx context.Context, id int64) (*domain.Question, error) {
	return s.store.QuestionByID(ctx, id)
}

// Digest lists open questions newest first for the admin overview.
func (s *QuestionService) Digest(ctx context.Context) ([]domain.Question, error) {
	return s.store.UnansweredNewest(ctx, digestLimit)
}

// Queue lists open questions oldest first with answer buttons.
func (s *QuestionService) Queue(ctx context.Context) ([]domain.Question, error) {
	return s.store.UnansweredOldest(ctx, queueLimit)
}

// Answer stamps the answer exactly once, delivers it to the asker, and
// broadcasts the Q&A pair to every other user who has ever asked a
// question. Delivery failures are logged and skipped; the report carries
// the successful broadcast count.
func (s *QuestionService) Answer(ctx context.Context, questionID, adminID int64, answer string) (*AnswerReport, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, domain.ErrInvalidInput
	}

	if err := s.store.AnswerQuestion(ctx, questionID, adminID, answer); err != nil {
		return nil, err
	}
	question, err := s.store.QuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	report := &AnswerReport{Question: question}
	text := s.render(question.QuestionText, answer)

	asker, err := s.store.UserByID(ctx, question.UserID)
	if err != nil {
		logger.SVCQuestions.WarnContext(ctx, "asker lookup failed",
			slog.String("event", "questions.answer"),
			slog.Int64("question_id", questionID),
			slog.String("err", err.Error()),
		)
	} else if s.notify != nil {
		if err := s.notify.Notify(ctx, asker.TelegramID, text); err != nil {
			logger.SVCQuestions.WarnContext(ctx, "direct delivery failed",
				slog.String("event", "questions.answer"),
				slog.Int64("question_id", questionID),
				slog.String("err", err.Error()),
			)
		} else {
			report.DirectDelivered = true
		}
	}

	recipients, err := s.store.AskerTelegramIDs(ctx, question.UserID)
	if err != nil {
		return report, fmt.Errorf("broadcast recipients: %w", err)
	}
	report.Recipients = len(recipients)
	for _, tgID := range recipients {
		if s.notify == nil {
			break
		}
		if err := s.notify.Notify(ctx, tgID, text); err != nil {
			logger.SVCQuestions.WarnContext(ctx, "broadcast delivery failed",
				slog.String("event", "questions.broadcast"),
				slog.Int64("question_id", questionID),
				slog.Int64("chat_id", tgID),
				slog.String("err", err.Error()),
			)
			continue
		}
		report.Delivered++
	}

	logger.SVCQuestions.InfoContext(ctx, "question answered",
		slog.String("event", "questions.answer"),
		slog.Int64("question_id", questionID),
		slog.Int("recipients", report.Recipients),
		slog.Int("delivered", report.Delivered),
	)
	return report, nil
}
