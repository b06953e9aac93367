package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/novatangle/donorbot/internal/domain"
)

const questionColumns = `id, user_id, question_text, answer_text,
	answered_by_admin_id, created_at, answered_at`

// CreateQuestion stores a free-form question verbatim.
func (s *Store) CreateQuestion(ctx context.Context, userID int64, text string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO questions (user_id, question_text) VALUES ($1, $2) RETURNING id`,
		userID, text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

// QuestionByID returns one question.
func (s *Store) QuestionByID(ctx context.Context, id int64) (*domain.Question, error) {
	var q domain.Question
	err := s.db.GetContext(ctx, &q,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &q, nil
}

// UnansweredNewest lists open questions newest first for the admin digest.
func (s *Store) UnansweredNewest(ctx context.Context, limit int) ([]domain.Question, error) {
	var rows []domain.Question
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+questionColumns+` FROM questions
		 WHERE answer_text IS NULL
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("unanswered newest: %w", err)
	}
	return rows, nil
}

// UnansweredOldest lists open questions oldest first for the answer queue.
func (s *Store) UnansweredOldest(ctx context.Context, limit int) ([]domain.Question, error) {
	var rows []domain.Question
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+questionColumns+` FROM questions
		 WHERE answer_text IS NULL
		 ORDER BY created_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("unanswered oldest: %w", err)
	}
	return rows, nil
}

// AnswerQuestion stamps the answer fields exactly once. The update is
// conditional on the question being unanswered; a second attempt yields
// ErrQuestionAnswered.
func (s *Store) AnswerQuestion(ctx context.Context, questionID, adminID int64, answer string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE questions
		 SET answer_text = $1, answered_by_admin_id = $2, answered_at = NOW()
		 WHERE id = $3 AND answer_text IS NULL`,
		answer, adminID, questionID)
	if err != nil {
		return fmt.Errorf("answer question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.QuestionByID(ctx, questionID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return domain.ErrQuestionAnswered
	}
	return nil
}

// AskerTelegramIDs lists the Telegram ids of every distinct user who has
// ever asked a question, excluding the given user.
func (s *Store) AskerTelegramIDs(ctx context.Context, excludeUserID int64) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		`SELECT DISTINCT u.telegram_id
		 FROM questions q
		 JOIN users u ON u.id = q.user_id
		 WHERE q.user_id <> $1
		 ORDER BY u.telegram_id`, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("asker ids: %w", err)
	}
	return ids, nil
}
