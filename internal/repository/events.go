package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/novatangle/donorbot/internal/domain"
)

const eventColumns = `e.id, e.date, e.blood_center_id, e.external_registration_link,
	e.is_active, e.created_at, c.short_name AS center_short_name`

// UpcomingEvents lists active future events ascending by date.
func (s *Store) UpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	var events []domain.Event
	err := s.db.SelectContext(ctx, &events,
		`SELECT `+eventColumns+`
		 FROM events e
		 JOIN blood_centers c ON c.id = e.blood_center_id
		 WHERE e.date > $1 AND e.is_active
		 ORDER BY e.date ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	return events, nil
}

// EventByID returns one event with its center short name.
func (s *Store) EventByID(ctx context.Context, id int64) (*domain.Event, error) {
	var e domain.Event
	err := s.db.GetContext(ctx, &e,
		`SELECT `+eventColumns+`
		 FROM events e
		 JOIN blood_centers c ON c.id = e.blood_center_id
		 WHERE e.id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &e, nil
}

// CreateEvent inserts a new donation day and fills in the generated id.
func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO events (date, blood_center_id, external_registration_link, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, created_at`,
		e.Date, e.BloodCenterID, e.ExternalRegistrationLink,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.IsActive = true
	return nil
}

// DeactivateEvent hides an event from the upcoming list without deleting it.
func (s *Store) DeactivateEvent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EventSummary is one row of the admin event listing.
type EventSummary struct {
	domain.Event
	Registrations int `db:"registrations"`
	Donations     int `db:"donations"`
}

// RecentEvents lists the latest events with registration and donation counts.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]EventSummary, error) {
	var rows []EventSummary
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+eventColumns+`,
			(SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = e.id) AS registrations,
			(SELECT COUNT(*) FROM donations d WHERE d.event_id = e.id) AS donations
		 FROM events e
		 JOIN blood_centers c ON c.id = e.blood_center_id
		 ORDER BY e.date DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return rows, nil
}
