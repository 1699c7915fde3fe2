package repositories

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"rolevend/internal/models/db_models"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *db_models.Plan) (uuid.UUID, error)
	Update(ctx context.Context, plan *db_models.Plan) error
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)

	GetByID(ctx context.Context, id string) (*db_models.Plan, error)
	// GetByIDUnscoped resolves soft-deleted plans too, for history reads.
	GetByIDUnscoped(ctx context.Context, id string) (*db_models.Plan, error)
	ListByGuild(ctx context.Context, guildID string, includeInactive bool) ([]db_models.Plan, error)
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *db_models.Plan) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return uuid.Nil, err
	}
	return plan.ID, nil
}

func (r *planRepository) Update(ctx context.Context, plan *db_models.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Save(plan)
		if result.Error != nil {
			return fmt.Errorf("failed to update plan: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *planRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&db_models.Plan{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetByIDUnscoped(ctx context.Context, id string) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := r.db.WithContext(ctx).Unscoped().First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) ListByGuild(ctx context.Context, guildID string, includeInactive bool) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	q := r.db.WithContext(ctx).Where("guild_id = ?", guildID)
	if !includeInactive {
		q = q.Where("active = TRUE")
	}
	if err := q.Order("price_mnt ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
