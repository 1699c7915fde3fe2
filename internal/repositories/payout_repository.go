package repositories

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"rolevend/internal/models/db_models"
)

type PayoutRepository interface {
	Create(ctx context.Context, payout *db_models.Payout) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Payout, error)
	ListByGuild(ctx context.Context, guildID string) ([]db_models.Payout, error)
	ListPending(ctx context.Context) ([]db_models.Payout, error)

	// SumDoneNet is the total net amount already withdrawn by a guild,
	// including system debits. Pending requests do not reduce balance.
	SumDoneNet(ctx context.Context, guildID string) (int64, error)

	// MarkDone flips pending -> done once.
	MarkDone(ctx context.Context, id uuid.UUID) (bool, error)

	CountDone(ctx context.Context) (int64, error)
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Create(ctx context.Context, payout *db_models.Payout) error {
	return r.db.WithContext(ctx).Create(payout).Error
}

func (r *payoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Payout, error) {
	var p db_models.Payout
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *payoutRepository) ListByGuild(ctx context.Context, guildID string) ([]db_models.Payout, error) {
	var out []db_models.Payout
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *payoutRepository) ListPending(ctx context.Context) ([]db_models.Payout, error) {
	var out []db_models.Payout
	err := r.db.WithContext(ctx).
		Where("status = ?", db_models.PayoutStatusPending).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *payoutRepository) SumDoneNet(ctx context.Context, guildID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Payout{}).
		Where("guild_id = ? AND status = ?", guildID, db_models.PayoutStatusDone).
		Select("COALESCE(SUM(net_mnt), 0)").
		Scan(&total).Error
	return total, err
}

func (r *payoutRepository) MarkDone(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&db_models.Payout{}).
		Where("id = ? AND status = ?", id, db_models.PayoutStatusPending).
		Update("status", db_models.PayoutStatusDone)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *payoutRepository) CountDone(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Payout{}).
		Where("status = ?", db_models.PayoutStatusDone).
		Count(&n).Error
	return n, err
}
