package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/novatangle/donorbot/internal/domain"
)

// ImportDonor inserts a roster user together with their synthetic donation
// history in one transaction. A duplicate phone or telegram id rolls the
// whole row back with ErrAlreadyRegistered.
func (s *Store) ImportDonor(ctx context.Context, u *domain.User, donations []domain.Donation) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, u); err != nil {
			return err
		}
		for i := range donations {
			d := &donations[i]
			d.UserID = u.ID
			err := tx.QueryRowxContext(ctx,
				`INSERT INTO donations (user_id, event_id, blood_center_id, donation_date, bone_marrow_sample)
				 VALUES ($1, $2, $3, $4, $5)
				 RETURNING id`,
				d.UserID, d.EventID, d.BloodCenterID, d.DonationDate, d.BoneMarrowSample,
			).Scan(&d.ID)
			if err != nil {
				return fmt.Errorf("insert imported donation: %w", err)
			}
		}
		return nil
	})
}
