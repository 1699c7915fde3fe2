package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"rolevend/internal/gateway/qpay"
	"rolevend/internal/models/db_models"
	"rolevend/internal/repositories"
	mem "rolevend/pkg/memcache"
	"rolevend/pkg/utils"
)

// SubscriptionTier is one bot-rental offer. Prices come from the
// environment so operators can reprice without a deploy; durations are
// fixed per tier.
type SubscriptionTier struct {
	Name         string `json:"name"`
	PriceMNT     int64  `json:"price_mnt"`
	DurationDays int    `json:"duration_days"`
}

func envPrice(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// Tiers returns the current rental offers.
func Tiers() []SubscriptionTier {
	return []SubscriptionTier{
		{Name: "Basic", PriceMNT: envPrice("SUB_BASIC_PRICE", 100), DurationDays: 30},
		{Name: "Pro", PriceMNT: envPrice("SUB_PRO_PRICE", 200), DurationDays: 90},
		{Name: "Premium", PriceMNT: envPrice("SUB_PREMIUM_PRICE", 300), DurationDays: 180},
	}
}

func tierByName(name string) (SubscriptionTier, bool) {
	for _, t := range Tiers() {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return SubscriptionTier{}, false
}

// SubscriptionPurchase pairs the pending subscription row with the
// invoice the guild admin has to pay.
type SubscriptionPurchase struct {
	Subscription *db_models.Subscription
	PaymentURL   string
	QRText       string
}

// SubscriptionService owns the guild's rental of the product itself.
// One row per guild; buying again while active stacks the new period on
// top of the remaining time.
type SubscriptionService interface {
	ListTiers() []SubscriptionTier
	Get(ctx context.Context, guildID string) (*db_models.Subscription, error)
	HasActive(ctx context.Context, guildID string) (bool, error)

	// StartPurchase creates a gateway invoice for a tier and resets the
	// guild's subscription row to pending until the invoice is paid. The
	// purchasing admin is recorded as the contact for expiry notices.
	StartPurchase(ctx context.Context, guildID, adminUserID, tierName string) (*SubscriptionPurchase, error)

	// CheckPurchase polls the gateway and activates the subscription
	// once its pending invoice is paid. Idempotent.
	CheckPurchase(ctx context.Context, guildID string) (string, *db_models.Subscription, error)

	// RenewWithBalance pays a renewal out of the guild's collected
	// balance instead of a new invoice. The debit and the extension
	// commit together or not at all.
	RenewWithBalance(ctx context.Context, guildID, adminUserID, tierName string) (*db_models.Subscription, error)
}

type subscriptionService struct {
	subscriptions repositories.SubscriptionRepository
	payouts       repositories.PayoutRepository
	analytics     repositories.AnalyticsRepository
	gateway       qpay.Client
	locks         *mem.KeyLocks
}

func NewSubscriptionService(
	subscriptions repositories.SubscriptionRepository,
	payouts repositories.PayoutRepository,
	analytics repositories.AnalyticsRepository,
	gateway qpay.Client,
	locks *mem.KeyLocks,
) SubscriptionService {
	return &subscriptionService{
		subscriptions: subscriptions,
		payouts:       payouts,
		analytics:     analytics,
		gateway:       gateway,
		locks:         locks,
	}
}

func (s *subscriptionService) ListTiers() []SubscriptionTier { return Tiers() }

func (s *subscriptionService) Get(ctx context.Context, guildID string) (*db_models.Subscription, error) {
	sub, err := s.subscriptions.GetByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.RecordNotFound
	}
	return sub, nil
}

func (s *subscriptionService) HasActive(ctx context.Context, guildID string) (bool, error) {
	sub, err := s.subscriptions.GetByGuild(ctx, guildID)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}
	return sub.Status == db_models.SubStatusActive && sub.ExpiresAt > utils.NowUnixSeconds(), nil
}

func (s *subscriptionService) StartPurchase(ctx context.Context, guildID, adminUserID, tierName string) (*SubscriptionPurchase, error) {
	tier, ok := tierByName(tierName)
	if !ok {
		return nil, utils.ErrInvalidPlanInput
	}

	inv, err := s.gateway.CreateInvoice(ctx, tier.PriceMNT, "Bot Subscription: "+tier.Name)
	if err != nil {
		log.Printf("subscription: invoice creation failed for guild %s: %v", guildID, err)
		return nil, utils.ErrGatewayUnavailable
	}

	sub, err := s.subscriptions.Upsert(ctx, guildID, tier.Name, tier.PriceMNT, inv.InvoiceID, adminUserID)
	if err != nil {
		return nil, err
	}

	return &SubscriptionPurchase{
		Subscription: sub,
		PaymentURL:   inv.PaymentURL(),
		QRText:       inv.QRText,
	}, nil
}

func (s *subscriptionService) CheckPurchase(ctx context.Context, guildID string) (string, *db_models.Subscription, error) {
	unlock := s.locks.Lock("subscription:" + guildID)
	defer unlock()

	sub, err := s.subscriptions.GetByGuild(ctx, guildID)
	if err != nil {
		return "", nil, err
	}
	if sub == nil || sub.InvoiceID == "" {
		return "", nil, utils.RecordNotFound
	}
	if sub.Status == db_models.SubStatusActive {
		return qpay.StatusPaid, sub, nil
	}

	status := s.gateway.CheckStatus(ctx, sub.InvoiceID)
	if status != qpay.StatusPaid {
		return status, sub, nil
	}

	tier, ok := tierByName(sub.PlanName)
	if !ok {
		// Repriced or renamed tier; fall back to the cheapest duration.
		tier = Tiers()[0]
	}

	activated, err := s.subscriptions.Activate(ctx, guildID, tier.DurationDays, utils.NowUnixSeconds())
	if err != nil {
		return "", nil, err
	}
	if activated == nil {
		return "", nil, utils.RecordNotFound
	}
	return qpay.StatusPaid, activated, nil
}

func (s *subscriptionService) RenewWithBalance(ctx context.Context, guildID, adminUserID, tierName string) (*db_models.Subscription, error) {
	tier, ok := tierByName(tierName)
	if !ok {
		return nil, utils.ErrInvalidPlanInput
	}

	unlock := s.locks.Lock("subscription:" + guildID)
	defer unlock()

	sub, err := s.subscriptions.GetByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.RecordNotFound
	}

	gross, err := s.analytics.TotalGuildRevenue(ctx, guildID)
	if err != nil {
		return nil, err
	}
	paidOut, err := s.payouts.SumDoneNet(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if utils.AvailableBalance(gross, paidOut) < tier.PriceMNT {
		return nil, utils.ErrInsufficientBalance
	}

	// System debit: already done, no transfer fee split, counts against
	// the guild's balance like any completed payout.
	debit := &db_models.Payout{
		GuildID:       guildID,
		GrossMNT:      tier.PriceMNT,
		FeeMNT:        0,
		NetMNT:        tier.PriceMNT,
		AccountNumber: db_models.SystemAccount,
		AccountName:   "Bot Subscription Renewal",
		Note:          fmt.Sprintf("%s renewal paid from collected balance", tier.Name),
		Status:        db_models.PayoutStatusDone,
	}

	renewed, err := s.subscriptions.RenewWithDebit(ctx, guildID, adminUserID, tier.DurationDays, utils.NowUnixSeconds(), debit)
	if err != nil {
		return nil, err
	}
	if renewed == nil {
		return nil, utils.RecordNotFound
	}
	return renewed, nil
}
