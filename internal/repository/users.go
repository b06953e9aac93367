package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/novatangle/donorbot/internal/domain"
)

const userColumns = `id, telegram_id, phone, full_name, user_type, group_number,
	consent_given, is_admin, bone_marrow_registry, created_at`

// UserByTelegramID returns the user linked to the Telegram identity.
func (s *Store) UserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// UserByPhone returns the user with the canonical phone number.
func (s *Store) UserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// UserByID returns the user by primary key.
func (s *Store) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// CreateUser inserts a fully consented user and fills in the generated id.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertUser(ctx, tx, u)
	})
}

func insertUser(ctx context.Context, tx *sqlx.Tx, u *domain.User) error {
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO users (telegram_id, phone, full_name, user_type, group_number,
			consent_given, is_admin, bone_marrow_registry)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		u.TelegramID, u.Phone, u.FullName, u.UserType, u.GroupNumber,
		u.ConsentGiven, u.IsAdmin, u.BoneMarrowRegistry,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// RelinkTelegramID points an existing user row at a new Telegram identity.
func (s *Store) RelinkTelegramID(ctx context.Context, userID, telegramID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET telegram_id = $1 WHERE id = $2`, telegramID, userID)
	if err != nil {
		return fmt.Errorf("relink telegram id: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GiveConsent flips the consent flag for an existing unconsented row.
func (s *Store) GiveConsent(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET consent_given = TRUE WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("give consent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IsAdminTelegramID re-derives admin rights from the users table.
func (s *Store) IsAdminTelegramID(ctx context.Context, telegramID int64) (bool, error) {
	var isAdmin bool
	err := s.db.GetContext(ctx, &isAdmin,
		`SELECT is_admin FROM users WHERE telegram_id = $1`, telegramID)
	if err != nil {
		if errors.Is(mapNotFound(err), domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("admin lookup: %w", err)
	}
	return isAdmin, nil
}

// PromoteToAdmin grants admin rights to the user linked to the Telegram identity.
func (s *Store) PromoteToAdmin(ctx context.Context, telegramID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_admin = TRUE WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return fmt.Errorf("promote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetBoneMarrowRegistry records the bone marrow registry membership flag.
func (s *Store) SetBoneMarrowRegistry(ctx context.Context, userID int64, member bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET bone_marrow_registry = $1 WHERE id = $2`, member, userID)
	if err != nil {
		return fmt.Errorf("set bone marrow flag: %w", err)
	}
	return nil
}

// AudienceTelegramIDs lists Telegram ids of consented users, optionally
// narrowed to one donor category. An empty userType selects everyone.
func (s *Store) AudienceTelegramIDs(ctx context.Context, userType domain.UserType) ([]int64, error) {
	var ids []int64
	var err error
	if userType == "" {
		err = s.db.SelectContext(ctx, &ids,
			`SELECT telegram_id FROM users WHERE consent_given ORDER BY id`)
	} else {
		err = s.db.SelectContext(ctx, &ids,
			`SELECT telegram_id FROM users WHERE consent_given AND user_type = $1 ORDER BY id`,
			userType)
	}
	if err != nil {
		return nil, fmt.Errorf("audience lookup: %w", err)
	}
	return ids, nil
}

// UserTypeCount is one row of the per-category totals.
type UserTypeCount struct {
	UserType domain.UserType `db:"user_type"`
	Count    int             `db:"count"`
}

// CountUsersByType returns the per-category user totals.
func (s *Store) CountUsersByType(ctx context.Context) ([]UserTypeCount, error) {
	var rows []UserTypeCount
	err := s.db.SelectContext(ctx, &rows,
		`SELECT user_type, COUNT(*) AS count FROM users GROUP BY user_type ORDER BY user_type`)
	if err != nil {
		return nil, fmt.Errorf("count users by type: %w", err)
	}
	return rows, nil
}

// CountBoneMarrowMembers counts users enrolled in the bone marrow registry.
func (s *Store) CountBoneMarrowMembers(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM users WHERE bone_marrow_registry`)
	if err != nil {
		return 0, fmt.Errorf("count bone marrow members: %w", err)
	}
	return n, nil
}
