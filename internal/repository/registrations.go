package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/novatangle/donorbot/internal/domain"
)

// RegistrationByUserEvent returns the registration row for a (user, event) pair.
func (s *Store) RegistrationByUserEvent(ctx context.Context, userID, eventID int64) (*domain.EventRegistration, error) {
	var r domain.EventRegistration
	err := s.db.GetContext(ctx, &r,
		`SELECT id, user_id, event_id, registered_at, attended, no_show_reason
		 FROM event_registrations
		 WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &r, nil
}

// CreateRegistration inserts a registration. The unique (user_id, event_id)
// index makes concurrent duplicates collapse into ErrAlreadyRegistered.
func (s *Store) CreateRegistration(ctx context.Context, userID, eventID int64) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO event_registrations (user_id, event_id)
		 VALUES ($1, $2)
		 RETURNING id`, userID, eventID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrAlreadyRegistered
		}
		return 0, fmt.Errorf("insert registration: %w", err)
	}
	return id, nil
}

// MarkNoShow records a missed donation with the self-reported reason.
// The registration id is carried in the callback payload, so the update is
// additionally scoped to the owning user; a foreign id changes nothing.
func (s *Store) MarkNoShow(ctx context.Context, userID, registrationID int64, reason domain.NoShowReason) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE event_registrations
		 SET attended = FALSE, no_show_reason = $1
		 WHERE id = $2 AND user_id = $3`, string(reason), registrationID, userID)
	if err != nil {
		return fmt.Errorf("mark no-show: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAttended records a confirmed attendance for one of the user's own
// registrations.
func (s *Store) MarkAttended(ctx context.Context, userID, registrationID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE event_registrations
		 SET attended = TRUE, no_show_reason = NULL
		 WHERE id = $1 AND user_id = $2`, registrationID, userID)
	if err != nil {
		return fmt.Errorf("mark attended: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PendingSurveys lists registrations for past events where attendance is
// still unknown, oldest first.
func (s *Store) PendingSurveys(ctx context.Context, userID int64, now time.Time) ([]domain.PendingSurvey, error) {
	var rows []domain.PendingSurvey
	err := s.db.SelectContext(ctx, &rows,
		`SELECT r.id AS registration_id, e.date AS event_date, c.short_name AS center_short_name
		 FROM event_registrations r
		 JOIN events e ON e.id = r.event_id
		 JOIN blood_centers c ON c.id = e.blood_center_id
		 WHERE r.user_id = $1 AND r.attended IS NULL AND e.date < $2
		 ORDER BY e.date`, userID, now)
	if err != nil {
		return nil, fmt.Errorf("pending surveys: %w", err)
	}
	return rows, nil
}
