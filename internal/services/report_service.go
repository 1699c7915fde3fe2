package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"rolevend/internal/models/db_models"
	"rolevend/internal/repositories"
	"rolevend/pkg/chat"
	"rolevend/pkg/utils"
)

// WeeklyReport is the Monday summary sent to each subscribed guild.
type WeeklyReport struct {
	GuildID          string `json:"guild_id"`
	TotalRevenueMNT  int64  `json:"total_revenue_mnt"`
	WeeklyRevenueMNT int64  `json:"weekly_revenue_mnt"`
	AvailableMNT     int64  `json:"available_mnt"`
	SubscriptionPlan string `json:"subscription_plan"`
	SubscriptionEnds string `json:"subscription_ends"`
	ActivePlans      int    `json:"active_plans"`
	Advice           string `json:"advice"`
}

type ReportService interface {
	Build(ctx context.Context, guildID string) (*WeeklyReport, error)

	// SendAll builds and delivers a report to every guild with an active
	// subscription. One guild failing never blocks the rest.
	SendAll(ctx context.Context) error
}

type reportService struct {
	subscriptions repositories.SubscriptionRepository
	payouts       repositories.PayoutRepository
	analytics     repositories.AnalyticsRepository
	plans         repositories.PlanRepository
	guilds        repositories.GuildRepository
	advisor       AdvisorService
	gateway       chat.Gateway
}

func NewReportService(
	subscriptions repositories.SubscriptionRepository,
	payouts repositories.PayoutRepository,
	analytics repositories.AnalyticsRepository,
	plans repositories.PlanRepository,
	guilds repositories.GuildRepository,
	advisor AdvisorService,
	gateway chat.Gateway,
) ReportService {
	return &reportService{
		subscriptions: subscriptions,
		payouts:       payouts,
		analytics:     analytics,
		plans:         plans,
		guilds:        guilds,
		advisor:       advisor,
		gateway:       gateway,
	}
}

const sevenDays = int64(7 * 24 * 60 * 60)

func (s *reportService) Build(ctx context.Context, guildID string) (*WeeklyReport, error) {
	now := utils.NowUnixSeconds()

	total, err := s.analytics.TotalGuildRevenue(ctx, guildID)
	if err != nil {
		return nil, err
	}
	weekly, err := s.analytics.RevenueSince(ctx, guildID, now-sevenDays, now+1)
	if err != nil {
		return nil, err
	}
	paidOut, err := s.payouts.SumDoneNet(ctx, guildID)
	if err != nil {
		return nil, err
	}
	activePlans, err := s.plans.ListByGuild(ctx, guildID, false)
	if err != nil {
		return nil, err
	}
	sub, err := s.subscriptions.GetByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		GuildID:          guildID,
		TotalRevenueMNT:  total,
		WeeklyRevenueMNT: weekly,
		AvailableMNT:     utils.AvailableBalance(total, paidOut),
		ActivePlans:      len(activePlans),
	}
	subActive := false
	if sub != nil {
		report.SubscriptionPlan = sub.PlanName
		report.SubscriptionEnds = utils.FormatDate(sub.ExpiresAt)
		subActive = sub.Status == db_models.SubStatusActive && sub.ExpiresAt > now
	}

	report.Advice = s.advisor.Advise(ctx, AdviceInput{
		GuildName:          guildID,
		TotalRevenueMNT:    total,
		WeeklyRevenueMNT:   weekly,
		AvailableMNT:       report.AvailableMNT,
		SubscriptionActive: subActive,
		ActivePlanCount:    len(activePlans),
	})
	return report, nil
}

func (s *reportService) SendAll(ctx context.Context) error {
	subs, err := s.subscriptions.ListActive(ctx)
	if err != nil {
		return err
	}

	sent := 0
	for _, sub := range subs {
		if err := s.sendOne(ctx, sub.GuildID); err != nil {
			log.Printf("report: failed for guild %s: %v", sub.GuildID, err)
			continue
		}
		sent++
	}
	log.Printf("report: weekly reports delivered to %d of %d guilds", sent, len(subs))
	return nil
}

func (s *reportService) sendOne(ctx context.Context, guildID string) error {
	report, err := s.Build(ctx, guildID)
	if err != nil {
		return err
	}

	cfg, err := s.guilds.GetConfig(ctx, guildID)
	if err != nil {
		return err
	}
	if cfg == nil || cfg.SalesChannelID == "" {
		log.Printf("report: guild %s has no sales channel configured, skipping delivery", guildID)
		return nil
	}

	return s.gateway.SendChannel(ctx, cfg.SalesChannelID, formatReport(report))
}

func formatReport(r *WeeklyReport) string {
	var b strings.Builder
	b.WriteString("📊 **Weekly Performance Report**\n\n")
	fmt.Fprintf(&b, "💰 **Revenue Summary**\nAll-Time Total: %d₮\nThis Week: %d₮\nAvailable to Collect: %d₮\n\n",
		r.TotalRevenueMNT, r.WeeklyRevenueMNT, r.AvailableMNT)
	if r.SubscriptionPlan != "" {
		fmt.Fprintf(&b, "🤖 **Bot Subscription**\nPlan: %s\nExpires: %s\n\n",
			r.SubscriptionPlan, r.SubscriptionEnds)
	} else {
		b.WriteString("⚠️ No active subscription. Renew to keep selling roles!\n\n")
	}
	fmt.Fprintf(&b, "🤖 **Recommendations**\n%s", r.Advice)
	return b.String()
}
