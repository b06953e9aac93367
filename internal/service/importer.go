package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/novatangle/donorbot/core/logger"
	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/validate"
)

// ErrEmptyRoster is returned when the uploaded workbook has no data rows.
var ErrEmptyRoster = errors.New("roster has no data rows")

// Days assumed between synthetic history donations. Whole-blood donors may
// donate at most once every 60 days, so spacing counts backwards by this
// interval yields plausible dates.
const donationIntervalDays = 60

// ImportStore is the persistence surface of the roster import.
type ImportStore interface {
	Centers(ctx context.Context) ([]domain.BloodCenter, error)
	UserByPhone(ctx context.Context, phone string) (*domain.User, error)
	ImportDonor(ctx context.Context, u *domain.User, donations []domain.Donation) error
}

// ImportReport summarizes one roster import run.
type ImportReport struct {
	Rows            int
	Imported        int
	Donations       int
	SkippedExisting int
	SkippedInvalid  int
}

// ImportService loads historical donor rosters from xlsx uploads.
//
// Imported users get negative synthetic Telegram ids so they can never
// collide with a real identity. When the person later registers through the
// conversation, the phone match re-links the row to their real id.
type ImportService struct {
	store ImportStore
	now   func() time.Time
}

// NewImportService wires the store.
func NewImportService(store ImportStore) *ImportService {
	return &ImportService{store: store, now: time.Now}
}

// Roster parses the first sheet of the uploaded workbook. The expected
// layout is ФИО | Телефон | Тип | Группа followed by one column per blood
// center short name holding that center's donation count. Invalid rows and
// already known phones are counted and skipped.
func (s *ImportService) Roster(ctx context.Context, data []byte) (*ImportReport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyRoster
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyRoster
	}

	centers, err := s.store.Centers(ctx)
	if err != nil {
		return nil, fmt.Errorf("centers: %w", err)
	}
	centerCols := matchCenterColumns(rows[0], centers)

	report := &ImportReport{}
	syntheticID := -s.now().UnixMilli()
	importTime := s.now()

	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		report.Rows++

		name := cell(row, 0)
		phone := cell(row, 1)
		if !validate.FullName(name) || !validate.Phone(phone) {
			report.SkippedInvalid++
			continue
		}
		userType, ok := parseUserType(cell(row, 2))
		if !ok {
			report.SkippedInvalid++
			continue
		}
		var group *string
		if g := validate.NormalizeGroup(cell(row, 3)); g != "" {
			if !validate.GroupNumber(g) {
				report.SkippedInvalid++
				continue
			}
			group = &g
		}

		normPhone := validate.NormalizePhone(phone)
		if _, err := s.store.UserByPhone(ctx, normPhone); err == nil {
			report.SkippedExisting++
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return report, fmt.Errorf("phone lookup: %w", err)
		}

		u := &domain.User{
			TelegramID:   syntheticID,
			Phone:        normPhone,
			FullName:     validate.NormalizeName(name),
			UserType:     userType,
			GroupNumber:  group,
			ConsentGiven: false,
		}
		syntheticID--

		donations := syntheticHistory(row, centerCols, importTime)
		if err := s.store.ImportDonor(ctx, u, donations); err != nil {
			if errors.Is(err, domain.ErrAlreadyRegistered) {
				report.SkippedExisting++
				continue
			}
			return report, fmt.Errorf("import donor: %w", err)
		}
		report.Imported++
		report.Donations += len(donations)
	}

	logger.SVCExport.InfoContext(ctx, "roster imported",
		slog.String("event", "import.roster"),
		slog.Int("rows", report.Rows),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.SkippedExisting+report.SkippedInvalid),
	)
	return report, nil
}

// matchCenterColumns maps column index to center id for every header cell
// that matches a known center short name.
func matchCenterColumns(header []string, centers []domain.BloodCenter) map[int]int64 {
	cols := make(map[int]int64)
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, c := range centers {
			if strings.EqualFold(h, c.ShortName) {
				cols[i] = c.ID
				break
			}
		}
	}
	return cols
}

// syntheticHistory expands per-center counts into dated donation records,
// spaced backwards from the import time.
func syntheticHistory(row []string, centerCols map[int]int64, importTime time.Time) []domain.Donation {
	var donations []domain.Donation
	for col, centerID := range centerCols {
		count, err := strconv.Atoi(strings.TrimSpace(cell(row, col)))
		if err != nil || count <= 0 {
			continue
		}
		for i := 0; i < count; i++ {
			donations = append(donations, domain.Donation{
				BloodCenterID: centerID,
				DonationDate:  importTime.AddDate(0, 0, -donationIntervalDays*(i+1)),
			})
		}
	}
	return donations
}

func parseUserType(raw string) (domain.UserType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "внешний", "внешний донор", string(domain.UserTypeExternal):
		return domain.UserTypeExternal, true
	case "студент", string(domain.UserTypeStudent):
		return domain.UserTypeStudent, true
	case "сотрудник", string(domain.UserTypeEmployee):
		return domain.UserTypeEmployee, true
	}
	return "", false
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
