package repositories

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"rolevend/internal/models/db_models"
)

type MembershipRepository interface {
	// Upsert creates or revives the single membership row for the
	// (guild, user, plan) key and sets its new end timestamp.
	Upsert(ctx context.Context, guildID, userID string, planID uuid.UUID, lastPaymentID string, accessEndsAt int64) (*db_models.Membership, error)

	GetByKey(ctx context.Context, guildID, userID string, planID uuid.UUID) (*db_models.Membership, error)
	ListActiveByUser(ctx context.Context, guildID, userID string) ([]db_models.Membership, error)
	ListActiveByGuild(ctx context.Context, guildID string) ([]db_models.Membership, error)
	ListExpired(ctx context.Context, now int64) ([]db_models.Membership, error)
	CountActiveByGuild(ctx context.Context, guildID string) (int64, error)

	// Deactivate flips active -> false once. Returns false when the row
	// was already inactive, so expiry sweeps stay idempotent.
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Upsert(ctx context.Context, guildID, userID string, planID uuid.UUID, lastPaymentID string, accessEndsAt int64) (*db_models.Membership, error) {
	var m db_models.Membership

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&m, "guild_id = ? AND user_id = ? AND plan_id = ?", guildID, userID, planID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			m = db_models.Membership{
				GuildID:       guildID,
				UserID:        userID,
				PlanID:        planID,
				Active:        true,
				AccessEndsAt:  accessEndsAt,
				LastPaymentID: lastPaymentID,
			}
			return tx.Create(&m).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&m).Updates(map[string]interface{}{
			"active":          true,
			"access_ends_at":  accessEndsAt,
			"last_payment_id": lastPaymentID,
		}).Error
	})

	if err != nil {
		return nil, err
	}
	m.Active = true
	m.AccessEndsAt = accessEndsAt
	m.LastPaymentID = lastPaymentID
	return &m, nil
}

func (r *membershipRepository) GetByKey(ctx context.Context, guildID, userID string, planID uuid.UUID) (*db_models.Membership, error) {
	var m db_models.Membership
	err := r.db.WithContext(ctx).
		First(&m, "guild_id = ? AND user_id = ? AND plan_id = ?", guildID, userID, planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) ListActiveByUser(ctx context.Context, guildID, userID string) ([]db_models.Membership, error) {
	var out []db_models.Membership
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ? AND active = TRUE", guildID, userID).
		Order("access_ends_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *membershipRepository) ListActiveByGuild(ctx context.Context, guildID string) ([]db_models.Membership, error) {
	var out []db_models.Membership
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND active = TRUE", guildID).
		Order("access_ends_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *membershipRepository) ListExpired(ctx context.Context, now int64) ([]db_models.Membership, error) {
	var out []db_models.Membership
	err := r.db.WithContext(ctx).
		Where("active = TRUE AND access_ends_at <= ?", now).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *membershipRepository) CountActiveByGuild(ctx context.Context, guildID string) (int64, error) {
	var n int64
	// Distinct users: one member holding several plans counts once.
	err := r.db.WithContext(ctx).
		Model(&db_models.Membership{}).
		Where("guild_id = ? AND active = TRUE", guildID).
		Distinct("user_id").
		Count(&n).Error
	return n, err
}

func (r *membershipRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&db_models.Membership{}).
		Where("id = ? AND active = TRUE", id).
		Update("active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
