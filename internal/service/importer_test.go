package service

import (
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/novatangle/donorbot/internal/domain"
)

type fakeImportStore struct {
	centers  []domain.BloodCenter
	byPhone  map[string]*domain.User
	imported []*domain.User
	history  map[string][]domain.Donation
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{
		centers: []domain.BloodCenter{
			{ID: 1, Name: "Центр крови ФМБА России", ShortName: "ФМБА"},
			{ID: 2, Name: "ЦК им. О.К. Гаврилова", ShortName: "Гаврилова"},
		},
		byPhone: map[string]*domain.User{},
		history: map[string][]domain.Donation{},
	}
}

func (f *fakeImportStore) Centers(_ context.Context) ([]domain.BloodCenter, error) {
	return f.centers, nil
}

func (f *fakeImportStore) UserByPhone(_ context.Context, phone string) (*domain.User, error) {
	if u, ok := f.byPhone[phone]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeImportStore) ImportDonor(_ context.Context, u *domain.User, donations []domain.Donation) error {
	if _, ok := f.byPhone[u.Phone]; ok {
		return domain.ErrAlreadyRegistered
	}
	u.ID = int64(len(f.imported) + 1)
	f.byPhone[u.Phone] = u
	f.imported = append(f.imported, u)
	f.history[u.Phone] = donations
	return nil
}

func rosterWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("render roster: %v", err)
	}
	return buf.Bytes()
}

func TestRosterImport(t *testing.T) {
	store := newFakeImportStore()
	store.byPhone["+79990000000"] = &domain.User{ID: 99, Phone: "+79990000000"}

	data := rosterWorkbook(t, [][]interface{}{
		{"ФИО", "Телефон", "Тип", "Группа", "ФМБА", "Гаврилова"},
		{"иванов иван", "+7 916 111-22-33", "Студент", "б20-505", 3, 1},
		{"Петрова Анна", "+79161112244", "Сотрудник", "", "", 2},
		{"Сидоров Пётр", "12345", "Студент", "Б21-404", 1, ""},
		{"Кузнецова Мария", "+79990000000", "", "", 5, ""},
	})

	svc := NewImportService(store)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

	report, err := svc.Roster(context.Background(), data)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if report.Rows != 4 {
		t.Fatalf("rows = %d, want 4", report.Rows)
	}
	if report.Imported != 2 {
		t.Fatalf("imported = %d, want 2", report.Imported)
	}
	if report.SkippedInvalid != 1 || report.SkippedExisting != 1 {
		t.Fatalf("skipped invalid=%d existing=%d, want 1/1", report.SkippedInvalid, report.SkippedExisting)
	}
	if report.Donations != 6 {
		t.Fatalf("donations = %d, want 6", report.Donations)
	}

	u := store.byPhone["+79161112233"]
	if u == nil {
		t.Fatal("student row not imported")
	}
	if u.FullName != "Иванов Иван" || u.Group() != "Б20-505" {
		t.Fatalf("imported user = %+v", u)
	}
	if u.TelegramID >= 0 {
		t.Fatalf("telegram id = %d, want negative synthetic id", u.TelegramID)
	}
	if u.ConsentGiven {
		t.Fatal("imported user must not carry consent")
	}

	history := store.history[u.Phone]
	if len(history) != 4 {
		t.Fatalf("history = %d donations, want 4", len(history))
	}
	centers := map[int64]int{}
	for _, d := range history {
		centers[d.BloodCenterID]++
		if !d.DonationDate.Before(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)) {
			t.Fatalf("synthetic date %v not in the past", d.DonationDate)
		}
	}
	if centers[1] != 3 || centers[2] != 1 {
		t.Fatalf("per-center counts = %v, want 3 and 1", centers)
	}
}

func TestRosterImportDistinctSyntheticIDs(t *testing.T) {
	store := newFakeImportStore()
	data := rosterWorkbook(t, [][]interface{}{
		{"ФИО", "Телефон", "Тип", "Группа", "ФМБА"},
		{"Иванов Иван", "+79161112233", "Студент", "Б20-505", ""},
		{"Петрова Анна", "+79161112244", "Сотрудник", "", ""},
	})

	svc := NewImportService(store)
	if _, err := svc.Roster(context.Background(), data); err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(store.imported) != 2 {
		t.Fatalf("imported = %d, want 2", len(store.imported))
	}
	if store.imported[0].TelegramID == store.imported[1].TelegramID {
		t.Fatal("synthetic telegram ids must be distinct")
	}
}

func TestRosterImportEmptyWorkbook(t *testing.T) {
	data := rosterWorkbook(t, [][]interface{}{
		{"ФИО", "Телефон"},
	})
	svc := NewImportService(newFakeImportStore())
	if _, err := svc.Roster(context.Background(), data); err != ErrEmptyRoster {
		t.Fatalf("err = %v, want ErrEmptyRoster", err)
	}
}
