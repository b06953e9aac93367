package service

import (
	"context"
	"errors"
	"testing"

	"github.com/novatangle/donorbot/internal/domain"
)

type fakeRegistrationStore struct {
	byPhone    map[string]*domain.User
	byTelegram map[int64]*domain.User
	created    []*domain.User
	relinks    int
	consents   []int64
}

func newFakeRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{
		byPhone:    map[string]*domain.User{},
		byTelegram: map[int64]*domain.User{},
	}
}

func (f *fakeRegistrationStore) UserByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	if u, ok := f.byTelegram[telegramID]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationStore) UserByPhone(_ context.Context, phone string) (*domain.User, error) {
	if u, ok := f.byPhone[phone]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationStore) RelinkTelegramID(_ context.Context, userID, telegramID int64) error {
	f.relinks++
	for _, u := range f.byPhone {
		if u.ID == userID {
			u.TelegramID = telegramID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRegistrationStore) GiveConsent(_ context.Context, userID int64) error {
	f.consents = append(f.consents, userID)
	return nil
}

func (f *fakeRegistrationStore) CreateUser(_ context.Context, u *domain.User) error {
	if _, ok := f.byPhone[u.Phone]; ok {
		return domain.ErrAlreadyRegistered
	}
	u.ID = int64(len(f.created) + 1)
	f.byPhone[u.Phone] = u
	f.byTelegram[u.TelegramID] = u
	f.created = append(f.created, u)
	return nil
}

func (f *fakeRegistrationStore) SetBoneMarrowRegistry(_ context.Context, userID int64, member bool) error {
	for _, u := range f.byTelegram {
		if u.ID == userID {
			u.BoneMarrowRegistry = member
			return nil
		}
	}
	return domain.ErrNotFound
}

func TestSubmitPhoneNewNumber(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	outcome, phone, u, err := svc.SubmitPhone(context.Background(), 100, "8 (915) 123-45-67")
	if err != nil {
		t.Fatalf("submit phone: %v", err)
	}
	if outcome != PhoneNew {
		t.Fatalf("outcome = %d, want PhoneNew", outcome)
	}
	if phone != "+89151234567" {
		t.Fatalf("normalized phone = %q", phone)
	}
	if u != nil {
		t.Fatalf("expected no user for a new number")
	}
}

func TestSubmitPhoneRelinksExistingAccount(t *testing.T) {
	store := newFakeRegistrationStore()
	existing := &domain.User{ID: 7, TelegramID: -42, Phone: "+79151234567", ConsentGiven: true}
	store.byPhone[existing.Phone] = existing
	svc := NewRegistrationService(store)

	outcome, _, u, err := svc.SubmitPhone(context.Background(), 555, "+7 915 123-45-67")
	if err != nil {
		t.Fatalf("submit phone: %v", err)
	}
	if outcome != PhoneLinkedConsented {
		t.Fatalf("outcome = %d, want PhoneLinkedConsented", outcome)
	}
	if store.relinks != 1 {
		t.Fatalf("relinks = %d, want 1", store.relinks)
	}
	if u.TelegramID != 555 {
		t.Fatalf("telegram id = %d after relink", u.TelegramID)
	}
}

func TestSubmitPhonePendingConsent(t *testing.T) {
	store := newFakeRegistrationStore()
	store.byPhone["+79151234567"] = &domain.User{ID: 3, TelegramID: 555, Phone: "+79151234567"}
	svc := NewRegistrationService(store)

	outcome, _, _, err := svc.SubmitPhone(context.Background(), 555, "+79151234567")
	if err != nil {
		t.Fatalf("submit phone: %v", err)
	}
	if outcome != PhoneLinkedPending {
		t.Fatalf("outcome = %d, want PhoneLinkedPending", outcome)
	}
	if store.relinks != 0 {
		t.Fatalf("relinks = %d, want 0 for same identity", store.relinks)
	}
}

func TestSubmitPhoneRejectsGarbage(t *testing.T) {
	svc := NewRegistrationService(newFakeRegistrationStore())
	_, _, _, err := svc.SubmitPhone(context.Background(), 1, "not a phone")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCompleteStudentRegistration(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	u, err := svc.Complete(context.Background(), RegistrationInput{
		TelegramID: 200,
		Phone:      "+79161112233",
		FullName:   "иванов иван иванович",
		UserType:   domain.UserTypeStudent,
		Group:      "б20-505",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if u.FullName != "Иванов Иван Иванович" {
		t.Fatalf("name = %q, want normalized capitalization", u.FullName)
	}
	if u.Group() != "Б20-505" {
		t.Fatalf("group = %q, want uppercased Б20-505", u.Group())
	}
	if !u.ConsentGiven {
		t.Fatal("completed user must carry consent")
	}
	if len(store.created) != 1 {
		t.Fatalf("created = %d rows, want 1", len(store.created))
	}
}

func TestCompleteValidation(t *testing.T) {
	svc := NewRegistrationService(newFakeRegistrationStore())
	base := RegistrationInput{
		TelegramID: 1,
		Phone:      "+79161112233",
		FullName:   "Иванов Иван",
		UserType:   domain.UserTypeStudent,
		Group:      "Б20-505",
	}

	cases := []struct {
		name   string
		mutate func(*RegistrationInput)
	}{
		{"single word name", func(in *RegistrationInput) { in.FullName = "Иванов" }},
		{"latin name", func(in *RegistrationInput) { in.FullName = "Ivanov Ivan" }},
		{"short phone", func(in *RegistrationInput) { in.Phone = "+7916" }},
		{"student without group", func(in *RegistrationInput) { in.Group = "" }},
		{"bad group format", func(in *RegistrationInput) { in.Group = "20-505" }},
		{"unknown category", func(in *RegistrationInput) { in.UserType = "alien" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if _, err := svc.Complete(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCompleteEmployeeNeedsNoGroup(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	u, err := svc.Complete(context.Background(), RegistrationInput{
		TelegramID: 2,
		Phone:      "+79161112244",
		FullName:   "Петрова Анна",
		UserType:   domain.UserTypeEmployee,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if u.GroupNumber != nil {
		t.Fatalf("group = %v, want nil for employee", *u.GroupNumber)
	}
}

func TestJoinBoneMarrowRegistry(t *testing.T) {
	store := newFakeRegistrationStore()
	store.byTelegram[10] = &domain.User{ID: 1, TelegramID: 10, ConsentGiven: true}
	svc := NewRegistrationService(store)

	if err := svc.JoinBoneMarrowRegistry(context.Background(), 1); err != nil {
		t.Fatalf("join: %v", err)
	}
	if !store.byTelegram[10].BoneMarrowRegistry {
		t.Fatal("membership flag must be set")
	}

	if err := svc.JoinBoneMarrowRegistry(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unknown user", err)
	}
}

func TestRegisteredReportsConsentState(t *testing.T) {
	store := newFakeRegistrationStore()
	store.byTelegram[10] = &domain.User{ID: 1, TelegramID: 10, ConsentGiven: true}
	store.byTelegram[11] = &domain.User{ID: 2, TelegramID: 11}
	svc := NewRegistrationService(store)

	if _, ok, _ := svc.Registered(context.Background(), 10); !ok {
		t.Fatal("consented user must report registered")
	}
	if _, ok, _ := svc.Registered(context.Background(), 11); ok {
		t.Fatal("unconsented user must not report registered")
	}
	if _, ok, _ := svc.Registered(context.Background(), 12); ok {
		t.Fatal("unknown identity must not report registered")
	}
}
