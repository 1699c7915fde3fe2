package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"rolevend/internal/models/db_models"
	"rolevend/internal/repositories"
	"rolevend/pkg/chat"
	"rolevend/pkg/utils"
)

// MembershipService owns the timed role grants bought through plans.
// Database state is the source of truth: rows flip first, chat side
// effects (role add/remove, DMs) are best effort afterwards and a failed
// side effect never rolls back the row.
type MembershipService interface {
	// Grant extends or creates the membership for a paid purchase and
	// returns the row with its new end timestamp. Unexpired time stacks.
	Grant(ctx context.Context, plan *db_models.Plan, userID, paymentID string) (*db_models.Membership, error)

	ListActiveByUser(ctx context.Context, guildID, userID string) ([]db_models.Membership, error)
	ListActiveByGuild(ctx context.Context, guildID string) ([]db_models.Membership, error)

	// Expire deactivates one membership and then tries to remove the
	// role and notify the member. Safe to call repeatedly.
	Expire(ctx context.Context, m *db_models.Membership) error

	// Revoke is the admin-initiated variant of Expire.
	Revoke(ctx context.Context, guildID, userID string, planID uuid.UUID) error
}

type membershipService struct {
	memberships repositories.MembershipRepository
	plans       repositories.PlanRepository
	gateway     chat.Gateway
}

func NewMembershipService(
	memberships repositories.MembershipRepository,
	plans repositories.PlanRepository,
	gateway chat.Gateway,
) MembershipService {
	return &membershipService{
		memberships: memberships,
		plans:       plans,
		gateway:     gateway,
	}
}

func (s *membershipService) Grant(ctx context.Context, plan *db_models.Plan, userID, paymentID string) (*db_models.Membership, error) {
	now := utils.NowUnixSeconds()

	existing, err := s.memberships.GetByKey(ctx, plan.GuildID, userID, plan.ID)
	if err != nil {
		return nil, err
	}

	var currentEnd int64
	if existing != nil && existing.Active {
		currentEnd = existing.AccessEndsAt
	}
	endsAt := utils.ExtendFromUnix(now, currentEnd, plan.DurationDays)

	m, err := s.memberships.Upsert(ctx, plan.GuildID, userID, plan.ID, paymentID, endsAt)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.AddRole(ctx, plan.GuildID, userID, plan.RoleID); err != nil {
		log.Printf("membership: failed to add role %s to %s in guild %s: %v",
			plan.RoleID, userID, plan.GuildID, err)
	}
	msg := fmt.Sprintf("✅ Your **%s** role is active until **%s**. Thank you for your purchase!",
		plan.Name, utils.FormatDate(endsAt))
	if err := s.gateway.SendDM(ctx, userID, msg); err != nil {
		log.Printf("membership: failed to DM %s: %v", userID, err)
	}

	return m, nil
}

func (s *membershipService) ListActiveByUser(ctx context.Context, guildID, userID string) ([]db_models.Membership, error) {
	return s.memberships.ListActiveByUser(ctx, guildID, userID)
}

func (s *membershipService) ListActiveByGuild(ctx context.Context, guildID string) ([]db_models.Membership, error) {
	return s.memberships.ListActiveByGuild(ctx, guildID)
}

func (s *membershipService) Expire(ctx context.Context, m *db_models.Membership) error {
	flipped, err := s.memberships.Deactivate(ctx, m.ID)
	if err != nil {
		return err
	}
	if !flipped {
		return nil
	}

	plan, err := s.plans.GetByIDUnscoped(ctx, m.PlanID.String())
	if err != nil || plan == nil {
		log.Printf("membership: cannot resolve plan %s for expired membership %s: %v",
			m.PlanID, m.ID, err)
		return nil
	}

	if err := s.gateway.RemoveRole(ctx, m.GuildID, m.UserID, plan.RoleID); err != nil {
		log.Printf("membership: failed to remove role %s from %s in guild %s: %v",
			plan.RoleID, m.UserID, m.GuildID, err)
	}

	// Still-purchasable plans get a renewal nudge; retired ones get a
	// terminal notice.
	var msg string
	if plan.Active && !plan.DeletedAt.Valid {
		msg = fmt.Sprintf("⏰ Your **%s** role has expired. Purchase the plan again to regain access.", plan.Name)
	} else {
		msg = fmt.Sprintf("⏰ Your **%s** role has expired and this plan is no longer available.", plan.Name)
	}
	if err := s.gateway.SendDM(ctx, m.UserID, msg); err != nil {
		log.Printf("membership: failed to DM %s: %v", m.UserID, err)
	}

	return nil
}

func (s *membershipService) Revoke(ctx context.Context, guildID, userID string, planID uuid.UUID) error {
	m, err := s.memberships.GetByKey(ctx, guildID, userID, planID)
	if err != nil {
		return err
	}
	if m == nil || !m.Active {
		return utils.RecordNotFound
	}
	return s.Expire(ctx, m)
}
