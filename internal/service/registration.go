package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/novatangle/donorbot/core/logger"
	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/validate"
)

// RegistrationStore is the persistence surface of the registration flow.
type RegistrationStore interface {
	UserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	UserByPhone(ctx context.Context, phone string) (*domain.User, error)
	RelinkTelegramID(ctx context.Context, userID, telegramID int64) error
	GiveConsent(ctx context.Context, userID int64) error
	CreateUser(ctx context.Context, u *domain.User) error
	SetBoneMarrowRegistry(ctx context.Context, userID int64, member bool) error
}

// PhoneOutcome describes what the shared contact resolved to.
type PhoneOutcome int

const (
	// PhoneNew means no account carries this number; the conversation
	// continues with the name step.
	PhoneNew PhoneOutcome = iota
	// PhoneLinkedConsented means an existing consented account was
	// re-linked to the current Telegram identity; registration is done.
	PhoneLinkedConsented
	// PhoneLinkedPending means an existing account was re-linked but has
	// not given consent yet; the conversation jumps to the consent step.
	PhoneLinkedPending
)

// RegistrationInput carries the collected conversation answers.
type RegistrationInput struct {
	TelegramID int64
	Phone      string
	FullName   string
	UserType   domain.UserType
	Group      string
}

// RegistrationService implements the phone-verified sign-up conversation.
// Scratch state between steps lives in the FSM session; nothing is
// persisted before consent on the new-user path.
type RegistrationService struct {
	store RegistrationStore
}

// NewRegistrationService wires the store.
func NewRegistrationService(store RegistrationStore) *RegistrationService {
	return &RegistrationService{store: store}
}

// GetUserByTelegramID is the raw account lookup behind the shared
// CurrentUser helper.
func (s *RegistrationService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.store.UserByTelegramID(ctx, telegramID)
}

// Registered returns the consented user for the Telegram identity, if any.
func (s *RegistrationService) Registered(ctx context.Context, telegramID int64) (*domain.User, bool, error) {
	u, err := tghelpers.CurrentUser[*domain.User](ctx, s, telegramID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !u.ConsentGiven {
		return u, false, nil
	}
	return u, true, nil
}

// SubmitPhone normalizes the shared contact number and resolves it against
// existing accounts. An existing number re-links the account to the current
// Telegram identity regardless of consent status.
func (s *RegistrationService) SubmitPhone(ctx context.Context, telegramID int64, rawPhone string) (PhoneOutcome, string, *domain.User, error) {
	if !validate.Phone(rawPhone) {
		return 0, "", nil, domain.ErrInvalidInput
	}
	phone := validate.NormalizePhone(rawPhone)

	existing, err := s.store.UserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return PhoneNew, phone, nil, nil
		}
		return 0, "", nil, fmt.Errorf("phone lookup: %w", err)
	}

	if existing.TelegramID != telegramID {
		if err := s.store.RelinkTelegramID(ctx, existing.ID, telegramID); err != nil {
			return 0, "", nil, fmt.Errorf("relink: %w", err)
		}
		existing.TelegramID = telegramID
		logger.SVCUsers.InfoContext(ctx, "account relinked",
			slog.String("event", "registration.relink"),
			slog.Int64("user_id", existing.ID),
		)
	}

	if existing.ConsentGiven {
		return PhoneLinkedConsented, phone, existing, nil
	}
	return PhoneLinkedPending, phone, existing, nil
}

// Complete persists a brand-new consented user after the consent step.
// All inputs are re-validated; the insert is transactional.
func (s *RegistrationService) Complete(ctx context.Context, in RegistrationInput) (*domain.User, error) {
	if !validate.Phone(in.Phone) || !validate.FullName(in.FullName) || !in.UserType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var group *string
	if in.UserType == domain.UserTypeStudent {
		if !validate.GroupNumber(in.Group) {
			return nil, domain.ErrInvalidInput
		}
		g := validate.NormalizeGroup(in.Group)
		group = &g
	}

	u := &domain.User{
		TelegramID:   in.TelegramID,
		Phone:        validate.NormalizePhone(in.Phone),
		FullName:     validate.NormalizeName(in.FullName),
		UserType:     in.UserType,
		GroupNumber:  group,
		ConsentGiven: true,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.SVCUsers.InfoContext(ctx, "user registered",
		slog.String("event", "registration.complete"),
		slog.Int64("user_id", u.ID),
		slog.String("user_type", string(u.UserType)),
	)
	return u, nil
}

// JoinBoneMarrowRegistry records that the user entered the bone marrow
// donor registry. Self-reported; there is no external verification source.
func (s *RegistrationService) JoinBoneMarrowRegistry(ctx context.Context, userID int64) error {
	if err := s.store.SetBoneMarrowRegistry(ctx, userID, true); err != nil {
		return fmt.Errorf("join bone marrow registry: %w", err)
	}
	logger.SVCUsers.InfoContext(ctx, "bone marrow registry joined",
		slog.String("event", "registration.bone_marrow"),
		slog.Int64("user_id", userID),
	)
	return nil
}

// ConfirmConsent flips consent for a re-linked account that had none.
func (s *RegistrationService) ConfirmConsent(ctx context.Context, userID int64) error {
	if err := s.store.GiveConsent(ctx, userID); err != nil {
		return fmt.Errorf("confirm consent: %w", err)
	}
	logger.SVCUsers.InfoContext(ctx, "consent confirmed",
		slog.String("event", "registration.consent"),
		slog.Int64("user_id", userID),
	)
	return nil
}
