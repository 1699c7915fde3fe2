package services

import (
	"context"

	"github.com/google/uuid"
	"rolevend/internal/repositories"
	"rolevend/pkg/utils"
)

// GrowthStats compares the last 30 days of revenue with the 30 before.
// GrowthPercent is nil for a guild whose first revenue landed inside the
// window, so callers can render "new growth" instead of a misleading
// percentage.
type GrowthStats struct {
	TotalRevenueMNT  int64    `json:"total_revenue_mnt"`
	AvailableMNT     int64    `json:"available_mnt"`
	ActiveMembers    int64    `json:"active_members"`
	Last30DaysMNT    int64    `json:"last_30_days_mnt"`
	Prev30DaysMNT    int64    `json:"prev_30_days_mnt"`
	GrowthPercent    *float64 `json:"growth_percent"`
	RevenueChartURL  string   `json:"revenue_chart_url,omitempty"`
	BreakdownPieURL  string   `json:"breakdown_pie_url,omitempty"`
	NewMembers30Days int64    `json:"new_members_30_days"`
}

// OwnerStats is the operator-wide view across every guild.
type OwnerStats struct {
	repositories.FleetStats
	BankTransferCostMNT int64                       `json:"bank_transfer_cost_mnt"`
	TopGuilds           []repositories.GuildRevenue `json:"top_guilds"`
}

type AnalyticsService interface {
	Growth(ctx context.Context, guildID string) (*GrowthStats, error)
	PlanBreakdown(ctx context.Context, guildID string) ([]repositories.PlanRevenue, error)
	TopMembers(ctx context.Context, guildID string, limit int) ([]repositories.MemberSpend, error)
	TopMembersByPlan(ctx context.Context, guildID string, planID uuid.UUID, limit int) ([]repositories.MemberSpend, error)
	Owner(ctx context.Context) (*OwnerStats, error)
}

type analyticsService struct {
	analytics   repositories.AnalyticsRepository
	payouts     repositories.PayoutRepository
	memberships repositories.MembershipRepository
}

func NewAnalyticsService(
	analytics repositories.AnalyticsRepository,
	payouts repositories.PayoutRepository,
	memberships repositories.MembershipRepository,
) AnalyticsService {
	return &analyticsService{
		analytics:   analytics,
		payouts:     payouts,
		memberships: memberships,
	}
}

const thirtyDays = int64(30 * 24 * 60 * 60)

func (s *analyticsService) Growth(ctx context.Context, guildID string) (*GrowthStats, error) {
	now := utils.NowUnixSeconds()

	total, err := s.analytics.TotalGuildRevenue(ctx, guildID)
	if err != nil {
		return nil, err
	}
	paidOut, err := s.payouts.SumDoneNet(ctx, guildID)
	if err != nil {
		return nil, err
	}
	activeMembers, err := s.memberships.CountActiveByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	last30, err := s.analytics.RevenueSince(ctx, guildID, now-thirtyDays, now+1)
	if err != nil {
		return nil, err
	}
	prev30, err := s.analytics.RevenueSince(ctx, guildID, now-2*thirtyDays, now-thirtyDays)
	if err != nil {
		return nil, err
	}
	newMembers, err := s.analytics.NewMembersSince(ctx, guildID, now-thirtyDays)
	if err != nil {
		return nil, err
	}

	stats := &GrowthStats{
		TotalRevenueMNT:  total,
		AvailableMNT:     utils.AvailableBalance(total, paidOut),
		ActiveMembers:    activeMembers,
		Last30DaysMNT:    last30,
		Prev30DaysMNT:    prev30,
		NewMembers30Days: newMembers,
	}
	if prev30 > 0 {
		pct := float64(last30-prev30) / float64(prev30) * 100
		stats.GrowthPercent = &pct
	} else if last30 == 0 {
		zero := 0.0
		stats.GrowthPercent = &zero
	}

	daily, err := s.analytics.RevenueByDay(ctx, guildID, now-thirtyDays)
	if err != nil {
		return nil, err
	}
	if len(daily) > 0 {
		labels := make([]string, len(daily))
		values := make([]int64, len(daily))
		for i, d := range daily {
			labels[i] = d.Day
			values[i] = d.Revenue
		}
		stats.RevenueChartURL = utils.RevenueGrowthChartURL(labels, values)
	}

	breakdown, err := s.analytics.PlanBreakdown(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > 1 {
		labels := make([]string, 0, len(breakdown))
		values := make([]int64, 0, len(breakdown))
		for _, b := range breakdown {
			if b.Revenue <= 0 {
				continue
			}
			labels = append(labels, b.PlanName)
			values = append(values, b.Revenue)
		}
		stats.BreakdownPieURL = utils.PlanBreakdownChartURL(labels, values)
	}

	return stats, nil
}

func (s *analyticsService) PlanBreakdown(ctx context.Context, guildID string) ([]repositories.PlanRevenue, error) {
	return s.analytics.PlanBreakdown(ctx, guildID)
}

func (s *analyticsService) TopMembers(ctx context.Context, guildID string, limit int) ([]repositories.MemberSpend, error) {
	return s.analytics.TopMembers(ctx, guildID, limit)
}

func (s *analyticsService) TopMembersByPlan(ctx context.Context, guildID string, planID uuid.UUID, limit int) ([]repositories.MemberSpend, error) {
	return s.analytics.TopMembersByPlan(ctx, guildID, planID, limit)
}

func (s *analyticsService) Owner(ctx context.Context) (*OwnerStats, error) {
	fleet, err := s.analytics.Fleet(ctx)
	if err != nil {
		return nil, err
	}
	topGuilds, err := s.analytics.TopGuilds(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &OwnerStats{
		FleetStats:          *fleet,
		BankTransferCostMNT: fleet.DonePayouts * utils.BankTransferFeeMNT,
		TopGuilds:           topGuilds,
	}, nil
}
