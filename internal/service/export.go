package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/novatangle/donorbot/core/logger"
	"github.com/novatangle/donorbot/internal/repository"
)

const (
	donorSheet    = "Доноры"
	donationSheet = "Донации"
)

var donorHeaders = []string{"ФИО", "Телефон", "Тип", "Группа", "Донаций", "Регистр ДКМ", "Дата регистрации"}

var donationHeaders = []string{"ФИО", "Дата донации", "Центр крови", "Тип донора", "Образец ДКМ"}

// ExportStore is the persistence surface of the xlsx export.
type ExportStore interface {
	DonorRoster(ctx context.Context) ([]repository.DonorRosterRow, error)
	DonationLedger(ctx context.Context) ([]repository.DonationLedgerRow, error)
}

// ExportFile is a rendered workbook ready to be sent as a document.
type ExportFile struct {
	Name string
	Data []byte
}

// ExportService renders the full database snapshot as an xlsx workbook.
// The export only reads; generating a file never mutates any row.
type ExportService struct {
	store ExportStore
	now   func() time.Time
}

// NewExportService wires the store.
func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store, now: time.Now}
}

// Workbook builds a two-sheet workbook with the donor roster and the full
// donation ledger. The file name carries a generation timestamp.
func (s *ExportService) Workbook(ctx context.Context) (*ExportFile, error) {
	roster, err := s.store.DonorRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("export roster: %w", err)
	}
	ledger, err := s.store.DonationLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", donorSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(donationSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeSheet(f, donorSheet, headerStyle, donorHeaders, len(roster), func(i int) []interface{} {
		r := roster[i]
		group := ""
		if r.GroupNumber != nil {
			group = *r.GroupNumber
		}
		return []interface{}{
			r.FullName,
			r.Phone,
			r.UserType.Label(),
			group,
			r.DonationCount,
			yesNo(r.BoneMarrowRegistry),
			r.CreatedAt.Format("02.01.2006"),
		}
	}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, donationSheet, headerStyle, donationHeaders, len(ledger), func(i int) []interface{} {
		d := ledger[i]
		return []interface{}{
			d.FullName,
			d.DonationDate.Format("02.01.2006"),
			d.CenterName,
			d.UserType.Label(),
			yesNo(d.BoneMarrowSample),
		}
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}

	name := fmt.Sprintf("donor_stats_%s.xlsx", s.now().Format("20060102_150405"))
	logger.SVCExport.InfoContext(ctx, "export generated",
		slog.String("event", "export.workbook"),
		slog.String("file", name),
		slog.Int("donors", len(roster)),
		slog.Int("donations", len(ledger)),
	)
	return &ExportFile{Name: name, Data: buf.Bytes()}, nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows int, row func(i int) []interface{}) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("header value: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("header style: %w", err)
		}
	}
	for i := 0; i < rows; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, toRowPtr(row(i))); err != nil {
			return fmt.Errorf("row values: %w", err)
		}
	}
	return nil
}

func toRowPtr(values []interface{}) *[]interface{} {
	return &values
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}
