package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/novatangle/donorbot/core/logger"
	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/internal/domain"
)

// ErrBadPromoteCode is returned when the /admin code does not match.
var ErrBadPromoteCode = errors.New("wrong promotion code")

// ErrBadEventSpec is returned when the event creation line cannot be parsed.
var ErrBadEventSpec = errors.New("malformed event line")

// AdminStore is the persistence surface of the admin panel.
type AdminStore interface {
	IsAdminTelegramID(ctx context.Context, telegramID int64) (bool, error)
	PromoteToAdmin(ctx context.Context, telegramID int64) error
	CenterByShortName(ctx context.Context, name string) (*domain.BloodCenter, error)
	CreateEvent(ctx context.Context, e *domain.Event) error
	DeactivateEvent(ctx context.Context, id int64) error
	AudienceTelegramIDs(ctx context.Context, userType domain.UserType) ([]int64, error)
}

// BroadcastReport summarizes one broadcast run.
type BroadcastReport struct {
	Recipients int
	Delivered  int
}

// AdminService implements promotion, event creation, and broadcasts.
type AdminService struct {
	store       AdminStore
	notify      Notifier
	promoteCode string
	now         func() time.Time
}

// NewAdminService wires the store, the notifier, and the promotion code
// from the application config.
func NewAdminService(store AdminStore, notify Notifier, promoteCode string) *AdminService {
	return &AdminService{store: store, notify: notify, promoteCode: promoteCode, now: time.Now}
}

// IsAdmin reports whether the Telegram identity has the admin flag. Unknown
// identities are plain users.
func (s *AdminService) IsAdmin(ctx context.Context, telegramID int64) bool {
	ok, err := s.store.IsAdminTelegramID(ctx, telegramID)
	if err != nil {
		logger.SVCAdmin.WarnContext(ctx, "admin lookup failed",
			slog.String("event", "admin.is_admin"),
			slog.Int64("chat_id", telegramID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return ok
}

// Promote grants the admin flag when the code matches. The comparison is
// constant-time. The caller must already be a registered user.
func (s *AdminService) Promote(ctx context.Context, telegramID int64, code string) error {
	if subtle.ConstantTimeCompare([]byte(code), []byte(s.promoteCode)) != 1 {
		return ErrBadPromoteCode
	}
	if err := s.store.PromoteToAdmin(ctx, telegramID); err != nil {
		return err
	}
	logger.SVCAdmin.InfoContext(ctx, "admin promoted",
		slog.String("event", "admin.promote"),
		slog.Int64("chat_id", telegramID),
	)
	return nil
}

// CreateEventFromSpec parses one creation line of the form
//
//	02.09.2026 10:00 | ФМБА | https://example.org/reg
//
// where the link part is optional, resolves the blood center by short name,
// and stores the event. The date part accepts the layouts known to
// ParseFlexibleDate; announcements use the dotted form. The date must be in
// the future.
func (s *AdminService) CreateEventFromSpec(ctx context.Context, line string) (*domain.Event, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, ErrBadEventSpec
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	date, ok := tghelpers.ParseFlexibleDate(parts[0])
	if !ok {
		return nil, ErrBadEventSpec
	}
	if !date.After(s.now()) {
		return nil, ErrBadEventSpec
	}

	center, err := s.store.CenterByShortName(ctx, parts[1])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBadEventSpec
		}
		return nil, fmt.Errorf("center lookup: %w", err)
	}

	e := &domain.Event{
		Date:          date,
		BloodCenterID: center.ID,
		IsActive:      true,
	}
	if len(parts) == 3 && parts[2] != "" {
		e.ExternalRegistrationLink = &parts[2]
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	e.CenterShortName = center.ShortName

	logger.SVCAdmin.InfoContext(ctx, "event created",
		slog.String("event", "admin.create_event"),
		slog.Int64("event_id", e.ID),
		slog.Time("date", e.Date),
	)
	return e, nil
}

// DeactivateEvent hides an event from the upcoming list. Registrations and
// donations stay untouched.
func (s *AdminService) DeactivateEvent(ctx context.Context, id int64) error {
	if err := s.store.DeactivateEvent(ctx, id); err != nil {
		return err
	}
	logger.SVCAdmin.InfoContext(ctx, "event deactivated",
		slog.String("event", "admin.deactivate_event"),
		slog.Int64("event_id", id),
	)
	return nil
}

// Broadcast sends the text to every consented user of the audience, or to
// everyone when the audience is empty. Failed deliveries are logged and
// skipped so one blocked chat never aborts the run.
func (s *AdminService) Broadcast(ctx context.Context, audience domain.UserType, text string) (*BroadcastReport, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidInput
	}
	ids, err := s.store.AudienceTelegramIDs(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("broadcast audience: %w", err)
	}

	report := &BroadcastReport{Recipients: len(ids)}
	for _, tgID := range ids {
		if err := s.notify.Notify(ctx, tgID, text); err != nil {
			logger.SVCAdmin.WarnContext(ctx, "broadcast delivery failed",
				slog.String("event", "admin.broadcast"),
				slog.Int64("chat_id", tgID),
				slog.String("err", err.Error()),
			)
			continue
		}
		report.Delivered++
	}

	logger.SVCAdmin.InfoContext(ctx, "broadcast finished",
		slog.String("event", "admin.broadcast"),
		slog.String("user_type", string(audience)),
		slog.Int("recipients", report.Recipients),
		slog.Int("delivered", report.Delivered),
	)
	return report, nil
}
