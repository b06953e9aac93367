package service

import (
	"context"
	"testing"
	"time"

	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/repository"
)

type fakeStatsStore struct {
	donations  []domain.Donation
	breakdown  []repository.CenterCount
	top        []repository.RankedDonor
	total      int
	byType     []repository.UserTypeCount
	boneMarrow int
	recent     []repository.EventSummary
}

func (f *fakeStatsStore) DonationsByUser(_ context.Context, _ int64) ([]domain.Donation, error) {
	return f.donations, nil
}

func (f *fakeStatsStore) DonationBreakdown(_ context.Context, _ int64) ([]repository.CenterCount, error) {
	return f.breakdown, nil
}

func (f *fakeStatsStore) TopDonors(_ context.Context, limit int) ([]repository.RankedDonor, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func (f *fakeStatsStore) TotalDonations(_ context.Context) (int, error) { return f.total, nil }

func (f *fakeStatsStore) CountUsersByType(_ context.Context) ([]repository.UserTypeCount, error) {
	return f.byType, nil
}

func (f *fakeStatsStore) CountBoneMarrowMembers(_ context.Context) (int, error) {
	return f.boneMarrow, nil
}

func (f *fakeStatsStore) RecentEvents(_ context.Context, limit int) ([]repository.EventSummary, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func donationRows(n int) []domain.Donation {
	out := make([]domain.Donation, n)
	for i := range out {
		out[i] = domain.Donation{
			ID:              int64(n - i),
			DonationDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i*60),
			CenterShortName: "ФМБА",
		}
	}
	return out
}

func TestProfileLevelsAndNextThreshold(t *testing.T) {
	cases := []struct {
		donations int
		level     string
		next      int
	}{
		{0, "🌟 Начинающий донор", 3},
		{3, "🥉 Постоянный донор", 10},
		{10, "🥈 Опытный донор", 25},
		{25, "🥇 Активный донор", 40},
		{40, "🏆 Почетный донор России", 0},
	}
	for _, tc := range cases {
		store := &fakeStatsStore{donations: donationRows(tc.donations)}
		svc := NewStatsService(store)
		p, err := svc.Profile(context.Background(), &domain.User{ID: 1})
		if err != nil {
			t.Fatalf("profile(%d): %v", tc.donations, err)
		}
		if p.Level != tc.level {
			t.Fatalf("level(%d) = %q, want %q", tc.donations, p.Level, tc.level)
		}
		if p.NextThreshold != tc.next {
			t.Fatalf("next(%d) = %d, want %d", tc.donations, p.NextThreshold, tc.next)
		}
	}
}

func TestProfileLastDonationIsNewest(t *testing.T) {
	store := &fakeStatsStore{donations: donationRows(4)}
	svc := NewStatsService(store)

	p, err := svc.Profile(context.Background(), &domain.User{ID: 1})
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.LastDonation == nil || p.LastDonation.ID != 4 {
		t.Fatalf("last donation = %+v, want the first (newest) row", p.LastDonation)
	}
	if p.TotalCount != 4 {
		t.Fatalf("total = %d, want 4", p.TotalCount)
	}
}

func TestHistoryCapped(t *testing.T) {
	store := &fakeStatsStore{donations: donationRows(15)}
	svc := NewStatsService(store)

	rows, err := svc.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != historyLimit {
		t.Fatalf("history = %d rows, want %d", len(rows), historyLimit)
	}
}

func TestDonorStatsTotals(t *testing.T) {
	store := &fakeStatsStore{
		byType: []repository.UserTypeCount{
			{UserType: domain.UserTypeStudent, Count: 120},
			{UserType: domain.UserTypeEmployee, Count: 30},
			{UserType: domain.UserTypeExternal, Count: 8},
		},
		boneMarrow: 17,
		total:      412,
	}
	svc := NewStatsService(store)

	totals, err := svc.DonorStats(context.Background())
	if err != nil {
		t.Fatalf("donor stats: %v", err)
	}
	if totals.TotalUsers != 158 {
		t.Fatalf("total users = %d, want 158", totals.TotalUsers)
	}
	if totals.BoneMarrow != 17 || totals.TotalDonations != 412 {
		t.Fatalf("totals = %+v", totals)
	}
}
