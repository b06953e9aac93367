package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/novatangle/donorbot/internal/domain"
)

type fakeEventStore struct {
	events        map[int64]*domain.Event
	registrations map[[2]int64]int64
	regOwner      map[int64]int64
	noShows       map[int64]domain.NoShowReason
	attended      map[int64]bool
	nextRegID     int64
	pending       map[int64][]domain.PendingSurvey
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		events:        map[int64]*domain.Event{},
		registrations: map[[2]int64]int64{},
		regOwner:      map[int64]int64{},
		noShows:       map[int64]domain.NoShowReason{},
		attended:      map[int64]bool{},
		nextRegID:     1,
		pending:       map[int64][]domain.PendingSurvey{},
	}
}

func (f *fakeEventStore) UpcomingEvents(_ context.Context, now time.Time) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range f.events {
		if e.IsActive && e.Date.After(now) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) EventByID(_ context.Context, id int64) (*domain.Event, error) {
	if e, ok := f.events[id]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventStore) RegistrationByUserEvent(_ context.Context, userID, eventID int64) (*domain.EventRegistration, error) {
	if id, ok := f.registrations[[2]int64{userID, eventID}]; ok {
		return &domain.EventRegistration{ID: id, UserID: userID, EventID: eventID}, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventStore) CreateRegistration(_ context.Context, userID, eventID int64) (int64, error) {
	key := [2]int64{userID, eventID}
	if _, ok := f.registrations[key]; ok {
		return 0, domain.ErrAlreadyRegistered
	}
	id := f.nextRegID
	f.nextRegID++
	f.registrations[key] = id
	f.regOwner[id] = userID
	return id, nil
}

func (f *fakeEventStore) MarkNoShow(_ context.Context, userID, registrationID int64, reason domain.NoShowReason) error {
	if f.regOwner[registrationID] != userID {
		return domain.ErrNotFound
	}
	f.noShows[registrationID] = reason
	return nil
}

func (f *fakeEventStore) MarkAttended(_ context.Context, userID, registrationID int64) error {
	if f.regOwner[registrationID] != userID {
		return domain.ErrNotFound
	}
	f.attended[registrationID] = true
	return nil
}

func (f *fakeEventStore) PendingSurveys(_ context.Context, userID int64, _ time.Time) ([]domain.PendingSurvey, error) {
	return f.pending[userID], nil
}

func futureEvent(id int64) *domain.Event {
	return &domain.Event{
		ID:              id,
		Date:            time.Now().Add(48 * time.Hour),
		BloodCenterID:   1,
		IsActive:        true,
		CenterShortName: "ФМБА",
	}
}

func TestSelectReportsExistingRegistration(t *testing.T) {
	store := newFakeEventStore()
	store.events[1] = futureEvent(1)
	svc := NewEventService(store)
	ctx := context.Background()

	_, already, err := svc.Select(ctx, 5, 1)
	if err != nil || already {
		t.Fatalf("first select: already=%v err=%v", already, err)
	}
	if _, err := svc.Confirm(ctx, 5, 1); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	_, already, err = svc.Select(ctx, 5, 1)
	if err != nil {
		t.Fatalf("second select: %v", err)
	}
	if !already {
		t.Fatal("second select must report the existing registration")
	}
	if len(store.registrations) != 1 {
		t.Fatalf("registrations = %d, want exactly 1", len(store.registrations))
	}
}

func TestConfirmDuplicateCollapses(t *testing.T) {
	store := newFakeEventStore()
	store.events[1] = futureEvent(1)
	svc := NewEventService(store)
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, 5, 1); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	_, err := svc.Confirm(ctx, 5, 1)
	if !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
	if len(store.registrations) != 1 {
		t.Fatalf("registrations = %d, want exactly 1", len(store.registrations))
	}
}

func TestConfirmRejectsStaleEvent(t *testing.T) {
	store := newFakeEventStore()
	past := futureEvent(1)
	past.Date = time.Now().Add(-time.Hour)
	store.events[1] = past
	inactive := futureEvent(2)
	inactive.IsActive = false
	store.events[2] = inactive
	svc := NewEventService(store)
	ctx := context.Background()

	for _, eventID := range []int64{1, 2, 99} {
		if _, err := svc.Confirm(ctx, 5, eventID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("event %d: err = %v, want ErrNotFound", eventID, err)
		}
	}
	if len(store.registrations) != 0 {
		t.Fatalf("registrations = %d, want 0", len(store.registrations))
	}
}

func TestReportNoShow(t *testing.T) {
	store := newFakeEventStore()
	store.events[1] = futureEvent(1)
	svc := NewEventService(store)
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, 5, 1); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	regID := store.registrations[[2]int64{5, 1}]

	if err := svc.ReportNoShow(ctx, 5, regID, domain.NoShowMedotved); err != nil {
		t.Fatalf("report no-show: %v", err)
	}
	if store.noShows[regID] != domain.NoShowMedotved {
		t.Fatalf("stored reason = %q", store.noShows[regID])
	}

	if err := svc.ReportNoShow(ctx, 5, regID, "overslept"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for unknown reason", err)
	}
}

func TestSurveyScopedToOwner(t *testing.T) {
	store := newFakeEventStore()
	store.events[1] = futureEvent(1)
	svc := NewEventService(store)
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, 5, 1); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	regID := store.registrations[[2]int64{5, 1}]

	// The registration id arrives in a callback payload, so a different
	// user presenting it must not touch the row.
	if err := svc.ReportNoShow(ctx, 6, regID, domain.NoShowMedotved); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign no-show: err = %v, want ErrNotFound", err)
	}
	if _, ok := store.noShows[regID]; ok {
		t.Fatal("foreign no-show must not record a reason")
	}
	if err := svc.ConfirmAttendance(ctx, 6, regID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign attendance: err = %v, want ErrNotFound", err)
	}
	if store.attended[regID] {
		t.Fatal("foreign attendance must not mark the row")
	}

	if err := svc.ConfirmAttendance(ctx, 5, regID); err != nil {
		t.Fatalf("owner attendance: %v", err)
	}
	if !store.attended[regID] {
		t.Fatal("owner attendance must mark the row")
	}
}
