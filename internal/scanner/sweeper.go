package scanner

import (
	"context"
	"fmt"
	"log"
	"time"

	"rolevend/internal/models/db_models"
	"rolevend/internal/repositories"
	"rolevend/internal/services"
	"rolevend/pkg/chat"
	"rolevend/pkg/utils"
)

// warnWindow is how far ahead the renewal warning looks.
const warnWindow = int64(3 * 24 * 60 * 60)

// Sweeper holds the periodic maintenance passes: membership expiry,
// subscription expiry, renewal warnings and the weekly report trigger.
// Every pass is idempotent and isolates per-item failures so one broken
// row never stalls the sweep.
type Sweeper struct {
	memberships   repositories.MembershipRepository
	subscriptions repositories.SubscriptionRepository
	guilds        repositories.GuildRepository
	membership    services.MembershipService
	reports       services.ReportService
	gateway       chat.Gateway
}

func NewSweeper(
	memberships repositories.MembershipRepository,
	subscriptions repositories.SubscriptionRepository,
	guilds repositories.GuildRepository,
	membership services.MembershipService,
	reports services.ReportService,
	gateway chat.Gateway,
) *Sweeper {
	return &Sweeper{
		memberships:   memberships,
		subscriptions: subscriptions,
		guilds:        guilds,
		membership:    membership,
		reports:       reports,
		gateway:       gateway,
	}
}

// ExpireMemberships deactivates every membership past its end timestamp.
// The row flips before any chat side effect runs.
func (s *Sweeper) ExpireMemberships(ctx context.Context) error {
	now := utils.NowUnixSeconds()
	expired, err := s.memberships.ListExpired(ctx, now)
	if err != nil {
		return err
	}

	for i := range expired {
		if err := s.membership.Expire(ctx, &expired[i]); err != nil {
			log.Printf("scanner: failed to expire membership %s: %v", expired[i].ID, err)
		}
	}
	if len(expired) > 0 {
		log.Printf("scanner: processed %d expired memberships", len(expired))
	}
	return nil
}

// ExpireSubscriptions flips overdue guild subscriptions to expired and
// notifies the guild's admin contact.
func (s *Sweeper) ExpireSubscriptions(ctx context.Context) error {
	now := utils.NowUnixSeconds()
	expired, err := s.subscriptions.ListExpired(ctx, now)
	if err != nil {
		return err
	}

	for i := range expired {
		sub := &expired[i]
		flipped, err := s.subscriptions.MarkExpired(ctx, sub.GuildID)
		if err != nil {
			log.Printf("scanner: failed to expire subscription for guild %s: %v", sub.GuildID, err)
			continue
		}
		if !flipped {
			continue
		}
		s.notifyAdmins(ctx, sub,
			"❌ Your bot subscription has expired. Renew it to keep selling roles.")
	}
	if len(expired) > 0 {
		log.Printf("scanner: processed %d expired subscriptions", len(expired))
	}
	return nil
}

// WarnExpiringSubscriptions warns guilds whose subscription ends within
// three days. The warning marker persists, so each cycle warns once even
// across restarts.
func (s *Sweeper) WarnExpiringSubscriptions(ctx context.Context) error {
	now := utils.NowUnixSeconds()
	expiring, err := s.subscriptions.ListUnwarnedExpiring(ctx, now, now+warnWindow)
	if err != nil {
		return err
	}

	for i := range expiring {
		sub := &expiring[i]
		days := utils.DaysUntil(now, sub.ExpiresAt)
		msg := fmt.Sprintf("⚠️ Your bot subscription expires in %d day(s), on %s. Renew now to avoid interruption.",
			days, utils.FormatDate(sub.ExpiresAt))
		s.notifyAdmins(ctx, sub, msg)

		if err := s.subscriptions.SetRenewalWarned(ctx, sub.GuildID, now); err != nil {
			log.Printf("scanner: failed to persist warning marker for guild %s: %v", sub.GuildID, err)
		}
	}
	if len(expiring) > 0 {
		log.Printf("scanner: warned %d guilds about expiring subscriptions", len(expiring))
	}
	return nil
}

// MaybeSendWeeklyReports fires the weekly reports when called during the
// Monday 21:00 UTC hour. The caller tracks the last sent day to avoid
// duplicates within the hour.
func (s *Sweeper) MaybeSendWeeklyReports(ctx context.Context, now time.Time) (bool, error) {
	now = now.UTC()
	if now.Weekday() != time.Monday || now.Hour() != 21 {
		return false, nil
	}
	return true, s.reports.SendAll(ctx)
}

// notifyAdmins DMs the subscription's admin contact and posts to the
// guild's sales channel when one is configured. Each delivery fails
// independently; the sweep never depends on either landing.
func (s *Sweeper) notifyAdmins(ctx context.Context, sub *db_models.Subscription, message string) {
	delivered := false

	if sub.AdminUserID != "" {
		if err := s.gateway.SendDM(ctx, sub.AdminUserID, message); err != nil {
			log.Printf("scanner: failed to DM admin %s of guild %s: %v", sub.AdminUserID, sub.GuildID, err)
		} else {
			delivered = true
		}
	}

	cfg, err := s.guilds.GetConfig(ctx, sub.GuildID)
	if err == nil && cfg != nil && cfg.SalesChannelID != "" {
		if err := s.gateway.SendChannel(ctx, cfg.SalesChannelID, message); err != nil {
			log.Printf("scanner: failed to notify channel for guild %s: %v", sub.GuildID, err)
		} else {
			delivered = true
		}
	}

	if !delivered {
		log.Printf("scanner: no reachable admin contact for guild %s, notification dropped", sub.GuildID)
	}
}
