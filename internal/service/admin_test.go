package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/novatangle/donorbot/internal/domain"
)

type fakeAdminStore struct {
	admins   map[int64]bool
	promoted []int64
	centers  []domain.BloodCenter
	events   []*domain.Event
	audience map[domain.UserType][]int64
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{
		admins: map[int64]bool{},
		centers: []domain.BloodCenter{
			{ID: 1, Name: "Центр крови ФМБА России", ShortName: "ФМБА"},
			{ID: 2, Name: "ЦК им. О.К. Гаврилова", ShortName: "Гаврилова"},
		},
		audience: map[domain.UserType][]int64{},
	}
}

func (f *fakeAdminStore) IsAdminTelegramID(_ context.Context, telegramID int64) (bool, error) {
	return f.admins[telegramID], nil
}

func (f *fakeAdminStore) PromoteToAdmin(_ context.Context, telegramID int64) error {
	if _, ok := f.admins[telegramID]; !ok {
		return domain.ErrNotFound
	}
	f.admins[telegramID] = true
	f.promoted = append(f.promoted, telegramID)
	return nil
}

func (f *fakeAdminStore) CenterByShortName(_ context.Context, name string) (*domain.BloodCenter, error) {
	for i := range f.centers {
		if strings.EqualFold(f.centers[i].ShortName, name) {
			return &f.centers[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAdminStore) CreateEvent(_ context.Context, e *domain.Event) error {
	e.ID = int64(len(f.events) + 1)
	e.IsActive = true
	f.events = append(f.events, e)
	return nil
}

func (f *fakeAdminStore) DeactivateEvent(_ context.Context, id int64) error {
	for _, e := range f.events {
		if e.ID == id {
			e.IsActive = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAdminStore) AudienceTelegramIDs(_ context.Context, userType domain.UserType) ([]int64, error) {
	return f.audience[userType], nil
}

func TestPromoteChecksCode(t *testing.T) {
	store := newFakeAdminStore()
	store.admins[100] = false
	svc := NewAdminService(store, nil, "top-secret")
	ctx := context.Background()

	if err := svc.Promote(ctx, 100, "wrong"); !errors.Is(err, ErrBadPromoteCode) {
		t.Fatalf("err = %v, want ErrBadPromoteCode", err)
	}
	if len(store.promoted) != 0 {
		t.Fatal("wrong code must not promote")
	}

	if err := svc.Promote(ctx, 100, "top-secret"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !svc.IsAdmin(ctx, 100) {
		t.Fatal("promoted user must resolve as admin")
	}
}

func TestPromoteUnknownUser(t *testing.T) {
	svc := NewAdminService(newFakeAdminStore(), nil, "top-secret")
	if err := svc.Promote(context.Background(), 404, "top-secret"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unregistered identity", err)
	}
}

func TestCreateEventFromSpec(t *testing.T) {
	store := newFakeAdminStore()
	svc := NewAdminService(store, nil, "x")
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local) }
	ctx := context.Background()

	e, err := svc.CreateEventFromSpec(ctx, "15.09.2026 10:00 | фмба | https://example.org/reg")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.BloodCenterID != 1 {
		t.Fatalf("center id = %d, want case-insensitive match on ФМБА", e.BloodCenterID)
	}
	if e.ExternalRegistrationLink == nil || *e.ExternalRegistrationLink != "https://example.org/reg" {
		t.Fatalf("link = %v", e.ExternalRegistrationLink)
	}
	if e.Date.Day() != 15 || e.Date.Hour() != 10 {
		t.Fatalf("date parsed as %v", e.Date)
	}

	e, err = svc.CreateEventFromSpec(ctx, "20.09.2026 09:30 | Гаврилова")
	if err != nil {
		t.Fatalf("create without link: %v", err)
	}
	if e.ExternalRegistrationLink != nil {
		t.Fatalf("link = %v, want nil", *e.ExternalRegistrationLink)
	}

	// The date part also accepts the dashed layout.
	e, err = svc.CreateEventFromSpec(ctx, "2026-09-15 10:00 | ФМБА")
	if err != nil {
		t.Fatalf("create with dashed date: %v", err)
	}
	if e.Date.Day() != 15 || e.Date.Month() != time.September {
		t.Fatalf("dashed date parsed as %v", e.Date)
	}
}

func TestCreateEventFromSpecRejectsBadLines(t *testing.T) {
	svc := NewAdminService(newFakeAdminStore(), nil, "x")
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local) }
	ctx := context.Background()

	lines := []string{
		"",
		"15.09.2026 10:00",
		"15/09/2026 10:00 | ФМБА",
		"15.09.2026 10:00 | Марс",
		"15.08.2026 10:00 | ФМБА",
		"15.09.2026 10:00 | ФМБА | x | y",
	}
	for _, line := range lines {
		if _, err := svc.CreateEventFromSpec(ctx, line); !errors.Is(err, ErrBadEventSpec) {
			t.Fatalf("line %q: err = %v, want ErrBadEventSpec", line, err)
		}
	}
}

func TestDeactivateEvent(t *testing.T) {
	store := newFakeAdminStore()
	svc := NewAdminService(store, nil, "x")
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local) }
	ctx := context.Background()

	e, err := svc.CreateEventFromSpec(ctx, "15.09.2026 10:00 | ФМБА")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeactivateEvent(ctx, e.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if store.events[0].IsActive {
		t.Fatal("event must be inactive after deactivation")
	}

	if err := svc.DeactivateEvent(ctx, 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unknown event", err)
	}
}

func TestBroadcastDeliveryIsolation(t *testing.T) {
	store := newFakeAdminStore()
	store.audience[domain.UserTypeStudent] = []int64{1, 2, 3, 4}
	notifier := &recordingNotifier{fail: map[int64]bool{3: true}}
	svc := NewAdminService(store, notifier, "x")

	report, err := svc.Broadcast(context.Background(), domain.UserTypeStudent, "Сдача крови 15 сентября!")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if report.Recipients != 4 || report.Delivered != 3 {
		t.Fatalf("recipients=%d delivered=%d, want 4/3", report.Recipients, report.Delivered)
	}
}

func TestBroadcastRejectsEmptyText(t *testing.T) {
	svc := NewAdminService(newFakeAdminStore(), &recordingNotifier{}, "x")
	if _, err := svc.Broadcast(context.Background(), "", "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
