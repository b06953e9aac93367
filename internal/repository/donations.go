package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/novatangle/donorbot/internal/domain"
)

// CreateDonation inserts an immutable donation record.
func (s *Store) CreateDonation(ctx context.Context, d *domain.Donation) error {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO donations (user_id, event_id, blood_center_id, donation_date, bone_marrow_sample)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		d.UserID, d.EventID, d.BloodCenterID, d.DonationDate, d.BoneMarrowSample,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

// DonationsByUser lists a user's donations newest first, with center names.
func (s *Store) DonationsByUser(ctx context.Context, userID int64) ([]domain.Donation, error) {
	var rows []domain.Donation
	err := s.db.SelectContext(ctx, &rows,
		`SELECT d.id, d.user_id, d.event_id, d.blood_center_id, d.donation_date,
			d.bone_marrow_sample, c.short_name AS center_short_name
		 FROM donations d
		 JOIN blood_centers c ON c.id = d.blood_center_id
		 WHERE d.user_id = $1
		 ORDER BY d.donation_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("donations by user: %w", err)
	}
	return rows, nil
}

// CenterCount is a per-center donation tally for one user.
type CenterCount struct {
	CenterShortName string `db:"center_short_name"`
	Count           int    `db:"count"`
}

// DonationBreakdown returns the user's per-center donation counts.
func (s *Store) DonationBreakdown(ctx context.Context, userID int64) ([]CenterCount, error) {
	var rows []CenterCount
	err := s.db.SelectContext(ctx, &rows,
		`SELECT c.short_name AS center_short_name, COUNT(*) AS count
		 FROM donations d
		 JOIN blood_centers c ON c.id = d.blood_center_id
		 WHERE d.user_id = $1
		 GROUP BY c.short_name
		 ORDER BY count DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("donation breakdown: %w", err)
	}
	return rows, nil
}

// RankedDonor is one row of the public donor ranking.
type RankedDonor struct {
	FullName string          `db:"full_name"`
	UserType domain.UserType `db:"user_type"`
	Count    int             `db:"count"`
}

// TopDonors returns users ordered by donation count descending.
func (s *Store) TopDonors(ctx context.Context, limit int) ([]RankedDonor, error) {
	var rows []RankedDonor
	err := s.db.SelectContext(ctx, &rows,
		`SELECT u.full_name, u.user_type, COUNT(d.id) AS count
		 FROM users u
		 JOIN donations d ON d.user_id = u.id
		 GROUP BY u.id, u.full_name, u.user_type
		 ORDER BY count DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top donors: %w", err)
	}
	return rows, nil
}

// TotalDonations counts all recorded donations.
func (s *Store) TotalDonations(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM donations`); err != nil {
		return 0, fmt.Errorf("total donations: %w", err)
	}
	return n, nil
}

// DonorRosterRow is one line of the donor roster export sheet.
type DonorRosterRow struct {
	FullName           string          `db:"full_name"`
	Phone              string          `db:"phone"`
	UserType           domain.UserType `db:"user_type"`
	GroupNumber        *string         `db:"group_number"`
	DonationCount      int             `db:"donation_count"`
	BoneMarrowRegistry bool            `db:"bone_marrow_registry"`
	CreatedAt          time.Time       `db:"created_at"`
}

// DonorRoster returns every user with their donation totals for export.
func (s *Store) DonorRoster(ctx context.Context) ([]DonorRosterRow, error) {
	var rows []DonorRosterRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT u.full_name, u.phone, u.user_type, u.group_number,
			u.bone_marrow_registry, u.created_at,
			COUNT(d.id) AS donation_count
		 FROM users u
		 LEFT JOIN donations d ON d.user_id = u.id
		 GROUP BY u.id
		 ORDER BY u.full_name`)
	if err != nil {
		return nil, fmt.Errorf("donor roster: %w", err)
	}
	return rows, nil
}

// DonationLedgerRow is one line of the donation ledger export sheet.
type DonationLedgerRow struct {
	FullName         string          `db:"full_name"`
	DonationDate     time.Time       `db:"donation_date"`
	CenterName       string          `db:"center_name"`
	UserType         domain.UserType `db:"user_type"`
	BoneMarrowSample bool            `db:"bone_marrow_sample"`
}

// DonationLedger returns every donation joined with donor and center for export.
func (s *Store) DonationLedger(ctx context.Context) ([]DonationLedgerRow, error) {
	var rows []DonationLedgerRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT u.full_name, d.donation_date, c.name AS center_name,
			u.user_type, d.bone_marrow_sample
		 FROM donations d
		 JOIN users u ON u.id = d.user_id
		 JOIN blood_centers c ON c.id = d.blood_center_id
		 ORDER BY d.donation_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("donation ledger: %w", err)
	}
	return rows, nil
}
