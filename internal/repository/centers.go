package repository

import (
	"context"
	"fmt"

	"github.com/novatangle/donorbot/internal/domain"
)

// Centers lists all partner blood centers.
func (s *Store) Centers(ctx context.Context) ([]domain.BloodCenter, error) {
	var rows []domain.BloodCenter
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, short_name FROM blood_centers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("centers: %w", err)
	}
	return rows, nil
}

// CenterByShortName matches a center case-insensitively by a short name fragment.
func (s *Store) CenterByShortName(ctx context.Context, shortName string) (*domain.BloodCenter, error) {
	var c domain.BloodCenter
	err := s.db.GetContext(ctx, &c,
		`SELECT id, name, short_name FROM blood_centers
		 WHERE short_name ILIKE '%' || $1 || '%'
		 ORDER BY id
		 LIMIT 1`, shortName)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

// CenterByID returns one center.
func (s *Store) CenterByID(ctx context.Context, id int64) (*domain.BloodCenter, error) {
	var c domain.BloodCenter
	err := s.db.GetContext(ctx, &c,
		`SELECT id, name, short_name FROM blood_centers WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

// EnsureCenter inserts a center unless one with the same short name exists.
func (s *Store) EnsureCenter(ctx context.Context, c domain.BloodCenter) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blood_centers (name, short_name)
		 VALUES ($1, $2)
		 ON CONFLICT (short_name) DO NOTHING`, c.Name, c.ShortName)
	if err != nil {
		return fmt.Errorf("ensure center: %w", err)
	}
	return nil
}
