package repositories

import (
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"rolevend/internal/models/db_models"
)

type DayRevenue struct {
	Day     string `json:"day"`
	Revenue int64  `json:"revenue"`
}

type PlanRevenue struct {
	PlanName string `json:"plan_name"`
	Members  int64  `json:"members"`
	Payments int64  `json:"payments"`
	Revenue  int64  `json:"revenue"`
}

type MemberSpend struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Payments int64  `json:"payments"`
	Total    int64  `json:"total"`
}

type GuildRevenue struct {
	GuildID  string `json:"guild_id"`
	Payments int64  `json:"payments"`
	Revenue  int64  `json:"revenue"`
}

type FleetStats struct {
	Guilds            int64 `json:"guilds"`
	ActiveSubs        int64 `json:"active_subscriptions"`
	ExpiredSubs       int64 `json:"expired_subscriptions"`
	PendingSubs       int64 `json:"pending_subscriptions"`
	ActiveSubRevenue  int64 `json:"active_subscription_revenue"`
	Plans             int64 `json:"plans"`
	ActivePlans       int64 `json:"active_plans"`
	ActiveMemberships int64 `json:"active_memberships"`
	UniqueMembers     int64 `json:"unique_members"`
	PaidPayments      int64 `json:"paid_payments"`
	GrossRevenue      int64 `json:"gross_revenue"`
	PaidOutNet        int64 `json:"paid_out_net"`
	DonePayouts       int64 `json:"done_payouts"`
}

// AnalyticsRepository runs the aggregate queries behind dashboards and
// weekly reports. All revenue figures count paid payments only.
type AnalyticsRepository interface {
	TotalGuildRevenue(ctx context.Context, guildID string) (int64, error)
	RevenueSince(ctx context.Context, guildID string, fromUnix, toUnix int64) (int64, error)
	RevenueByDay(ctx context.Context, guildID string, sinceUnix int64) ([]DayRevenue, error)
	PlanBreakdown(ctx context.Context, guildID string) ([]PlanRevenue, error)
	TopMembers(ctx context.Context, guildID string, limit int) ([]MemberSpend, error)
	TopMembersByPlan(ctx context.Context, guildID string, planID uuid.UUID, limit int) ([]MemberSpend, error)
	NewMembersSince(ctx context.Context, guildID string, sinceUnix int64) (int64, error)
	Fleet(ctx context.Context) (*FleetStats, error)
	TopGuilds(ctx context.Context, limit int) ([]GuildRevenue, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) TotalGuildRevenue(ctx context.Context, guildID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("guild_id = ? AND status = ?", guildID, db_models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount_mnt), 0)").
		Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) RevenueSince(ctx context.Context, guildID string, fromUnix, toUnix int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("guild_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			guildID, db_models.PaymentStatusPaid, fromUnix, toUnix).
		Select("COALESCE(SUM(amount_mnt), 0)").
		Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) RevenueByDay(ctx context.Context, guildID string, sinceUnix int64) ([]DayRevenue, error) {
	var rows []DayRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(to_timestamp(created_at) AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COALESCE(SUM(amount_mnt), 0) AS revenue
		FROM payments
		WHERE guild_id = ? AND status = ? AND created_at >= ? AND deleted_at IS NULL
		GROUP BY day
		ORDER BY day ASC`,
		guildID, db_models.PaymentStatusPaid, sinceUnix).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) PlanBreakdown(ctx context.Context, guildID string) ([]PlanRevenue, error) {
	var rows []PlanRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT pl.name AS plan_name,
		       (SELECT COUNT(*) FROM memberships m
		        WHERE m.plan_id = pl.id AND m.active = TRUE AND m.guild_id = pl.guild_id
		          AND m.deleted_at IS NULL) AS members,
		       (SELECT COUNT(*) FROM payments p
		        WHERE p.plan_id = pl.id AND p.status = ? AND p.guild_id = pl.guild_id
		          AND p.deleted_at IS NULL) AS payments,
		       (SELECT COALESCE(SUM(p.amount_mnt), 0) FROM payments p
		        WHERE p.plan_id = pl.id AND p.status = ? AND p.guild_id = pl.guild_id
		          AND p.deleted_at IS NULL) AS revenue
		FROM plans pl
		WHERE pl.guild_id = ? AND pl.active = TRUE AND pl.deleted_at IS NULL
		ORDER BY revenue DESC`,
		db_models.PaymentStatusPaid, db_models.PaymentStatusPaid, guildID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) TopMembers(ctx context.Context, guildID string, limit int) ([]MemberSpend, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []MemberSpend
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.user_id, u.username,
		       COUNT(p.id) AS payments,
		       COALESCE(SUM(p.amount_mnt), 0) AS total
		FROM users u
		JOIN payments p ON u.user_id = p.user_id AND u.guild_id = p.guild_id
		WHERE u.guild_id = ? AND p.status = ? AND p.deleted_at IS NULL
		GROUP BY u.user_id, u.username
		ORDER BY total DESC
		LIMIT ?`,
		guildID, db_models.PaymentStatusPaid, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) TopMembersByPlan(ctx context.Context, guildID string, planID uuid.UUID, limit int) ([]MemberSpend, error) {
	if limit <= 0 {
		limit = 3
	}
	var rows []MemberSpend
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.user_id, u.username,
		       COUNT(p.id) AS payments,
		       COALESCE(SUM(p.amount_mnt), 0) AS total
		FROM users u
		JOIN payments p ON u.user_id = p.user_id AND u.guild_id = p.guild_id
		WHERE u.guild_id = ? AND p.plan_id = ? AND p.status = ? AND p.deleted_at IS NULL
		GROUP BY u.user_id, u.username
		ORDER BY total DESC
		LIMIT ?`,
		guildID, planID, db_models.PaymentStatusPaid, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) NewMembersSince(ctx context.Context, guildID string, sinceUnix int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Membership{}).
		Where("guild_id = ? AND created_at >= ?", guildID, sinceUnix).
		Count(&n).Error
	return n, err
}

func (r *analyticsRepository) Fleet(ctx context.Context) (*FleetStats, error) {
	var s FleetStats
	db := r.db.WithContext(ctx)

	type q struct {
		dst   *int64
		query string
		args  []interface{}
	}
	queries := []q{
		{&s.Guilds, "SELECT COUNT(DISTINCT guild_id) FROM subscriptions WHERE deleted_at IS NULL", nil},
		{&s.ActiveSubs, "SELECT COUNT(*) FROM subscriptions WHERE status = ? AND deleted_at IS NULL", []interface{}{db_models.SubStatusActive}},
		{&s.ExpiredSubs, "SELECT COUNT(*) FROM subscriptions WHERE status = ? AND deleted_at IS NULL", []interface{}{db_models.SubStatusExpired}},
		{&s.PendingSubs, "SELECT COUNT(*) FROM subscriptions WHERE status = ? AND deleted_at IS NULL", []interface{}{db_models.SubStatusPending}},
		{&s.ActiveSubRevenue, "SELECT COALESCE(SUM(amount_mnt), 0) FROM subscriptions WHERE status = ? AND deleted_at IS NULL", []interface{}{db_models.SubStatusActive}},
		{&s.Plans, "SELECT COUNT(*) FROM plans WHERE deleted_at IS NULL", nil},
		{&s.ActivePlans, "SELECT COUNT(*) FROM plans WHERE active = TRUE AND deleted_at IS NULL", nil},
		{&s.ActiveMemberships, "SELECT COUNT(*) FROM memberships WHERE active = TRUE AND deleted_at IS NULL", nil},
		{&s.UniqueMembers, "SELECT COUNT(DISTINCT user_id) FROM memberships WHERE active = TRUE AND deleted_at IS NULL", nil},
		{&s.PaidPayments, "SELECT COUNT(*) FROM payments WHERE status = ? AND deleted_at IS NULL", []interface{}{db_models.PaymentStatusPaid}},
		{&s.GrossRevenue, "SELECT COALESCE(SUM(amount_mnt), 0) FROM payments WHERE status = ? AND deleted_at IS NULL", []interface{}{db_models.PaymentStatusPaid}},
		{&s.PaidOutNet, "SELECT COALESCE(SUM(net_mnt), 0) FROM payouts WHERE status = ? AND deleted_at IS NULL", []interface{}{db_models.PayoutStatusDone}},
		{&s.DonePayouts, "SELECT COUNT(*) FROM payouts WHERE status = ? AND deleted_at IS NULL", []interface{}{db_models.PayoutStatusDone}},
	}

	for _, item := range queries {
		if err := db.Raw(item.query, item.args...).Scan(item.dst).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *analyticsRepository) TopGuilds(ctx context.Context, limit int) ([]GuildRevenue, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []GuildRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT guild_id,
		       COUNT(*) AS payments,
		       COALESCE(SUM(amount_mnt), 0) AS revenue
		FROM payments
		WHERE status = ? AND deleted_at IS NULL
		GROUP BY guild_id
		ORDER BY revenue DESC
		LIMIT ?`,
		db_models.PaymentStatusPaid, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
