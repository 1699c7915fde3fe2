package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"rolevend/internal/models/db_models"
	"rolevend/internal/repositories"
	mem "rolevend/pkg/memcache"
	"rolevend/pkg/chat"
	"rolevend/pkg/utils"
)

// Balance is the guild's money position: gross paid revenue, the fee the
// platform keeps, what was already withdrawn and what is left to collect.
type Balance struct {
	GrossMNT     int64 `json:"gross_mnt"`
	FeeMNT       int64 `json:"fee_mnt"`
	PaidOutMNT   int64 `json:"paid_out_mnt"`
	AvailableMNT int64 `json:"available_mnt"`
}

// LedgerService owns payout bookkeeping. Requesting a payout moves the
// full available balance into a pending row; the operator flips it to
// done after the bank transfer and the requester gets a DM.
type LedgerService interface {
	GetBalance(ctx context.Context, guildID string) (*Balance, error)
	RequestPayout(ctx context.Context, guildID, requesterID, accountNumber, accountName, note string) (*db_models.Payout, error)
	ListPayouts(ctx context.Context, guildID string) ([]db_models.Payout, error)
	ListPendingPayouts(ctx context.Context) ([]db_models.Payout, error)
	MarkPayoutDone(ctx context.Context, payoutID uuid.UUID) (*db_models.Payout, error)
}

type ledgerService struct {
	payouts   repositories.PayoutRepository
	analytics repositories.AnalyticsRepository
	gateway   chat.Gateway
	locks     *mem.KeyLocks
}

func NewLedgerService(
	payouts repositories.PayoutRepository,
	analytics repositories.AnalyticsRepository,
	gateway chat.Gateway,
	locks *mem.KeyLocks,
) LedgerService {
	return &ledgerService{
		payouts:   payouts,
		analytics: analytics,
		gateway:   gateway,
		locks:     locks,
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, guildID string) (*Balance, error) {
	gross, err := s.analytics.TotalGuildRevenue(ctx, guildID)
	if err != nil {
		return nil, err
	}
	paidOut, err := s.payouts.SumDoneNet(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		GrossMNT:     gross,
		FeeMNT:       utils.FeeOnGross(gross),
		PaidOutMNT:   paidOut,
		AvailableMNT: utils.AvailableBalance(gross, paidOut),
	}, nil
}

func (s *ledgerService) RequestPayout(ctx context.Context, guildID, requesterID, accountNumber, accountName, note string) (*db_models.Payout, error) {
	if accountNumber == "" || accountName == "" {
		return nil, utils.ErrInvalidPlanInput
	}

	// One payout request at a time per guild, so two concurrent requests
	// cannot both claim the same balance.
	unlock := s.locks.Lock("payout:" + guildID)
	defer unlock()

	balance, err := s.GetBalance(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if balance.AvailableMNT < utils.MinPayoutMNT {
		return nil, utils.ErrBelowMinimumPayout
	}

	// The payout withdraws the entire available balance. Net is what the
	// bank transfer carries; gross/fee are back-derived for the books.
	net := balance.AvailableMNT
	gross := utils.GrossFromNet(net)
	payout := &db_models.Payout{
		GuildID:       guildID,
		RequesterID:   requesterID,
		GrossMNT:      gross,
		FeeMNT:        gross - net,
		NetMNT:        net,
		AccountNumber: accountNumber,
		AccountName:   accountName,
		Note:          note,
		Status:        db_models.PayoutStatusPending,
	}
	if err := s.payouts.Create(ctx, payout); err != nil {
		return nil, err
	}

	if ownerID := os.Getenv("OWNER_DISCORD_ID"); ownerID != "" {
		msg := fmt.Sprintf("💸 New payout request: **%d₮** to %s (%s) for guild %s",
			net, accountName, accountNumber, guildID)
		if err := s.gateway.SendDM(ctx, ownerID, msg); err != nil {
			log.Printf("ledger: failed to DM owner about payout %s: %v", payout.ID, err)
		}
	}

	return payout, nil
}

func (s *ledgerService) ListPayouts(ctx context.Context, guildID string) ([]db_models.Payout, error) {
	return s.payouts.ListByGuild(ctx, guildID)
}

func (s *ledgerService) ListPendingPayouts(ctx context.Context) ([]db_models.Payout, error) {
	return s.payouts.ListPending(ctx)
}

func (s *ledgerService) MarkPayoutDone(ctx context.Context, payoutID uuid.UUID) (*db_models.Payout, error) {
	payout, err := s.payouts.GetByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, utils.ErrPayoutNotFound
	}

	flipped, err := s.payouts.MarkDone(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	payout.Status = db_models.PayoutStatusDone
	if !flipped {
		// Already done; do not re-notify.
		return payout, nil
	}

	if payout.RequesterID != "" {
		msg := fmt.Sprintf("✅ Your payout of **%d₮** to %s (%s) has been transferred on %s.",
			payout.NetMNT, payout.AccountName, payout.AccountNumber,
			utils.FormatDate(utils.NowUnixSeconds()))
		if err := s.gateway.SendDM(ctx, payout.RequesterID, msg); err != nil {
			log.Printf("ledger: failed to DM requester %s: %v", payout.RequesterID, err)
		}
	}
	if ownerID := os.Getenv("OWNER_DISCORD_ID"); ownerID != "" {
		msg := fmt.Sprintf("🧾 Payout %s marked done: %d₮ net to guild %s.",
			payout.ID, payout.NetMNT, payout.GuildID)
		if err := s.gateway.SendDM(ctx, ownerID, msg); err != nil {
			log.Printf("ledger: failed to DM owner checkpoint: %v", err)
		}
	}

	return payout, nil
}
