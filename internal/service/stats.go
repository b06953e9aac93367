package service

import (
	"context"
	"fmt"

	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/repository"
)

const (
	rankingLimit     = 10
	historyLimit     = 10
	eventStatsLimit  = 5
	adminEventsLimit = 10
)

// StatsStore is the persistence surface of profile and statistics views.
type StatsStore interface {
	DonationsByUser(ctx context.Context, userID int64) ([]domain.Donation, error)
	DonationBreakdown(ctx context.Context, userID int64) ([]repository.CenterCount, error)
	TopDonors(ctx context.Context, limit int) ([]repository.RankedDonor, error)
	TotalDonations(ctx context.Context) (int, error)
	CountUsersByType(ctx context.Context) ([]repository.UserTypeCount, error)
	CountBoneMarrowMembers(ctx context.Context) (int, error)
	RecentEvents(ctx context.Context, limit int) ([]repository.EventSummary, error)
}

// Profile aggregates everything shown on the profile screen.
type Profile struct {
	User          *domain.User
	TotalCount    int
	LastDonation  *domain.Donation
	Breakdown     []repository.CenterCount
	Level         string
	NextThreshold int
}

// StatsService builds the read-only profile, ranking, and admin views.
type StatsService struct {
	store StatsStore
}

// NewStatsService wires the store.
func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

// Profile loads donation totals and the earned level for one user.
func (s *StatsService) Profile(ctx context.Context, user *domain.User) (*Profile, error) {
	donations, err := s.store.DonationsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("profile donations: %w", err)
	}
	breakdown, err := s.store.DonationBreakdown(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("profile breakdown: %w", err)
	}
	p := &Profile{
		User:       user,
		TotalCount: len(donations),
		Breakdown:  breakdown,
		Level:      domain.DonorLevel(len(donations)),
	}
	if len(donations) > 0 {
		p.LastDonation = &donations[0]
	}
	for _, threshold := range []int{domain.LevelRegular, domain.LevelSeasoned, domain.LevelActive, domain.LevelHonorary} {
		if p.TotalCount < threshold {
			p.NextThreshold = threshold
			break
		}
	}
	return p, nil
}

// History lists the user's donations newest first, capped for display.
func (s *StatsService) History(ctx context.Context, userID int64) ([]domain.Donation, error) {
	donations, err := s.store.DonationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(donations) > historyLimit {
		donations = donations[:historyLimit]
	}
	return donations, nil
}

// Ranking returns the public top donors list.
func (s *StatsService) Ranking(ctx context.Context) ([]repository.RankedDonor, error) {
	return s.store.TopDonors(ctx, rankingLimit)
}

// DonorTotals aggregates the admin donor statistics screen.
type DonorTotals struct {
	ByType         []repository.UserTypeCount
	TotalUsers     int
	BoneMarrow     int
	TotalDonations int
}

// DonorStats builds the admin per-category totals.
func (s *StatsService) DonorStats(ctx context.Context) (*DonorTotals, error) {
	byType, err := s.store.CountUsersByType(ctx)
	if err != nil {
		return nil, err
	}
	boneMarrow, err := s.store.CountBoneMarrowMembers(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.store.TotalDonations(ctx)
	if err != nil {
		return nil, err
	}
	t := &DonorTotals{ByType: byType, BoneMarrow: boneMarrow, TotalDonations: total}
	for _, row := range byType {
		t.TotalUsers += row.Count
	}
	return t, nil
}

// EventStats lists recent events with turnout counters for admins.
func (s *StatsService) EventStats(ctx context.Context) ([]repository.EventSummary, error) {
	return s.store.RecentEvents(ctx, eventStatsLimit)
}

// AdminEventList lists recent events for the admin management screen.
func (s *StatsService) AdminEventList(ctx context.Context) ([]repository.EventSummary, error) {
	return s.store.RecentEvents(ctx, adminEventsLimit)
}
