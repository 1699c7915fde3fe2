package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"rolevend/internal/models/db_models"
	"rolevend/internal/repositories"
	"rolevend/pkg/utils"
)

type PlanInput struct {
	RoleID       string
	Name         string
	PriceMNT     int64
	DurationDays int
	Description  string
}

// CatalogService manages the per-guild plan catalog. All operations are
// guild scoped: a plan id from another guild behaves like a missing plan
// would, except it gets its own error so admins can spot the mixup.
type CatalogService interface {
	CreatePlan(ctx context.Context, guildID string, in PlanInput) (*db_models.Plan, error)
	UpdatePlan(ctx context.Context, guildID string, planID uuid.UUID, in PlanInput, active *bool) (*db_models.Plan, error)
	DeletePlan(ctx context.Context, guildID string, planID uuid.UUID) error
	GetPlan(ctx context.Context, guildID string, planID uuid.UUID) (*db_models.Plan, error)
	ListPlans(ctx context.Context, guildID string, includeInactive bool) ([]db_models.Plan, error)

	// ResolvePlan loads a plan for history display, including deleted ones.
	ResolvePlan(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error)
}

type catalogService struct {
	plans repositories.PlanRepository
}

func NewCatalogService(plans repositories.PlanRepository) CatalogService {
	return &catalogService{plans: plans}
}

func validatePlanInput(in PlanInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.RoleID) == "" {
		return utils.ErrInvalidPlanInput
	}
	if in.PriceMNT <= 0 || in.DurationDays <= 0 {
		return utils.ErrInvalidPlanInput
	}
	return nil
}

func (s *catalogService) CreatePlan(ctx context.Context, guildID string, in PlanInput) (*db_models.Plan, error) {
	if err := validatePlanInput(in); err != nil {
		return nil, err
	}

	plan := &db_models.Plan{
		GuildID:      guildID,
		RoleID:       in.RoleID,
		Name:         strings.TrimSpace(in.Name),
		PriceMNT:     in.PriceMNT,
		DurationDays: in.DurationDays,
		Active:       true,
		Description:  in.Description,
	}
	if _, err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *catalogService) ownedPlan(ctx context.Context, guildID string, planID uuid.UUID) (*db_models.Plan, error) {
	plan, err := s.plans.GetByID(ctx, planID.String())
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	if plan.GuildID != guildID {
		return nil, utils.ErrPlanNotInGuild
	}
	return plan, nil
}

func (s *catalogService) UpdatePlan(ctx context.Context, guildID string, planID uuid.UUID, in PlanInput, active *bool) (*db_models.Plan, error) {
	if err := validatePlanInput(in); err != nil {
		return nil, err
	}

	plan, err := s.ownedPlan(ctx, guildID, planID)
	if err != nil {
		return nil, err
	}

	plan.RoleID = in.RoleID
	plan.Name = strings.TrimSpace(in.Name)
	plan.PriceMNT = in.PriceMNT
	plan.DurationDays = in.DurationDays
	plan.Description = in.Description
	if active != nil {
		plan.Active = *active
	}

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *catalogService) DeletePlan(ctx context.Context, guildID string, planID uuid.UUID) error {
	if _, err := s.ownedPlan(ctx, guildID, planID); err != nil {
		return err
	}

	deleted, err := s.plans.SoftDelete(ctx, planID)
	if err != nil {
		return err
	}
	if !deleted {
		return utils.ErrPlanAlreadyDeleted
	}
	return nil
}

func (s *catalogService) GetPlan(ctx context.Context, guildID string, planID uuid.UUID) (*db_models.Plan, error) {
	return s.ownedPlan(ctx, guildID, planID)
}

func (s *catalogService) ListPlans(ctx context.Context, guildID string, includeInactive bool) ([]db_models.Plan, error) {
	return s.plans.ListByGuild(ctx, guildID, includeInactive)
}

func (s *catalogService) ResolvePlan(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	plan, err := s.plans.GetByIDUnscoped(ctx, planID.String())
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}
