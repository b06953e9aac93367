package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/repository"
)

type fakeExportStore struct {
	roster []repository.DonorRosterRow
	ledger []repository.DonationLedgerRow
}

func (f *fakeExportStore) DonorRoster(_ context.Context) ([]repository.DonorRosterRow, error) {
	return f.roster, nil
}

func (f *fakeExportStore) DonationLedger(_ context.Context) ([]repository.DonationLedgerRow, error) {
	return f.ledger, nil
}

func TestWorkbookLayout(t *testing.T) {
	group := "Б20-505"
	store := &fakeExportStore{
		roster: []repository.DonorRosterRow{
			{
				FullName:           "Иванов Иван",
				Phone:              "+79161112233",
				UserType:           domain.UserTypeStudent,
				GroupNumber:        &group,
				DonationCount:      4,
				BoneMarrowRegistry: true,
				CreatedAt:          time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			},
			{
				FullName:  "Петрова Анна",
				Phone:     "+79161112244",
				UserType:  domain.UserTypeEmployee,
				CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		ledger: []repository.DonationLedgerRow{
			{
				FullName:         "Иванов Иван",
				DonationDate:     time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
				CenterName:       "Центр крови ФМБА России",
				UserType:         domain.UserTypeStudent,
				BoneMarrowSample: true,
			},
		},
	}
	svc := NewExportService(store)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC) }

	file, err := svc.Workbook(context.Background())
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	if file.Name != "donor_stats_20260828_143005.xlsx" {
		t.Fatalf("file name = %q", file.Name)
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("open rendered workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != donorSheet || sheets[1] != donationSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows(donorSheet)
	if err != nil {
		t.Fatalf("read donor sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("donor sheet rows = %d, want header + 2", len(rows))
	}
	if got := strings.Join(rows[0], "|"); got != strings.Join(donorHeaders, "|") {
		t.Fatalf("donor headers = %q", got)
	}
	first := rows[1]
	if first[0] != "Иванов Иван" || first[2] != "Студент" || first[3] != "Б20-505" ||
		first[4] != "4" || first[5] != "Да" || first[6] != "10.02.2026" {
		t.Fatalf("donor row = %v", first)
	}

	rows, err = f.GetRows(donationSheet)
	if err != nil {
		t.Fatalf("read donation sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("donation sheet rows = %d, want header + 1", len(rows))
	}
	if got := strings.Join(rows[0], "|"); got != strings.Join(donationHeaders, "|") {
		t.Fatalf("donation headers = %q", got)
	}
	if rows[1][1] != "15.06.2026" || rows[1][4] != "Да" {
		t.Fatalf("donation row = %v", rows[1])
	}
}

func TestWorkbookEmptyDatabase(t *testing.T) {
	svc := NewExportService(&fakeExportStore{})

	file, err := svc.Workbook(context.Background())
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("open rendered workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(donorSheet)
	if err != nil {
		t.Fatalf("read donor sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("empty export rows = %d, want header only", len(rows))
	}
}
