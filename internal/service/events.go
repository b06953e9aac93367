package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/novatangle/donorbot/core/logger"
	"github.com/novatangle/donorbot/internal/domain"
)

// EventStore is the persistence surface of the event registration flow.
type EventStore interface {
	UpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error)
	EventByID(ctx context.Context, id int64) (*domain.Event, error)
	RegistrationByUserEvent(ctx context.Context, userID, eventID int64) (*domain.EventRegistration, error)
	CreateRegistration(ctx context.Context, userID, eventID int64) (int64, error)
	MarkNoShow(ctx context.Context, userID, registrationID int64, reason domain.NoShowReason) error
	MarkAttended(ctx context.Context, userID, registrationID int64) error
	PendingSurveys(ctx context.Context, userID int64, now time.Time) ([]domain.PendingSurvey, error)
}

// EventService implements sign-up for donation days.
type EventService struct {
	store EventStore
	now   func() time.Time
}

// NewEventService wires the store.
func NewEventService(store EventStore) *EventService {
	return &EventService{store: store, now: time.Now}
}

// Upcoming lists active future events ascending by date.
func (s *EventService) Upcoming(ctx context.Context) ([]domain.Event, error) {
	return s.store.UpcomingEvents(ctx, s.now())
}

// Select resolves an event chosen from the list. The returned flag reports
// whether the user is already registered, which short-circuits the flow
// before any confirmation screen.
func (s *EventService) Select(ctx context.Context, userID, eventID int64) (*domain.Event, bool, error) {
	event, err := s.store.EventByID(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	_, err = s.store.RegistrationByUserEvent(ctx, userID, eventID)
	switch {
	case err == nil:
		return event, true, nil
	case errors.Is(err, domain.ErrNotFound):
		return event, false, nil
	default:
		return nil, false, fmt.Errorf("registration lookup: %w", err)
	}
}

// PendingSurveys lists past registrations still awaiting the attendance
// survey, oldest first.
func (s *EventService) PendingSurveys(ctx context.Context, userID int64) ([]domain.PendingSurvey, error) {
	return s.store.PendingSurveys(ctx, userID, s.now())
}

// Confirm creates the registration after the confirmation tap. The event is
// re-validated against stale buttons; a concurrent duplicate collapses into
// ErrAlreadyRegistered through the unique index.
func (s *EventService) Confirm(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
	event, err := s.store.EventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive || !event.Date.After(s.now()) {
		return nil, domain.ErrNotFound
	}
	regID, err := s.store.CreateRegistration(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	logger.SVCEvents.InfoContext(ctx, "event registration created",
		slog.String("event", "events.register"),
		slog.Int64("user_id", userID),
		slog.Int64("event_id", eventID),
		slog.Int64("registration_id", regID),
	)
	return event, nil
}

// ReportNoShow records a missed attendance. The registration id comes from
// the survey button payload; callback payloads are client-supplied, so the
// update is scoped to registrations owned by the caller.
func (s *EventService) ReportNoShow(ctx context.Context, userID, registrationID int64, reason domain.NoShowReason) error {
	if !reason.Valid() {
		return domain.ErrInvalidInput
	}
	if err := s.store.MarkNoShow(ctx, userID, registrationID, reason); err != nil {
		return err
	}
	logger.SVCEvents.InfoContext(ctx, "no-show recorded",
		slog.String("event", "events.no_show"),
		slog.Int64("user_id", userID),
		slog.Int64("registration_id", registrationID),
		slog.String("reason", string(reason)),
	)
	return nil
}

// ConfirmAttendance records a positive attendance answer, scoped to the
// caller's own registrations.
func (s *EventService) ConfirmAttendance(ctx context.Context, userID, registrationID int64) error {
	return s.store.MarkAttended(ctx, userID, registrationID)
}
