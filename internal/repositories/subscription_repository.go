package repositories

import (
	"context"
	"errors"
	"gorm.io/gorm"
	"rolevend/internal/models/db_models"
	"rolevend/pkg/utils"
)

type SubscriptionRepository interface {
	GetByGuild(ctx context.Context, guildID string) (*db_models.Subscription, error)

	// Upsert writes the guild's single subscription row. A new purchase
	// always resets status to pending until the invoice is confirmed and
	// records the purchasing admin as the guild's notification contact.
	Upsert(ctx context.Context, guildID, planName string, amountMNT int64, invoiceID, adminUserID string) (*db_models.Subscription, error)

	// Activate marks the subscription active and extends its expiry by
	// the given number of days, stacking on unexpired time. The renewal
	// warning marker is cleared in the same transaction.
	Activate(ctx context.Context, guildID string, days int, now int64) (*db_models.Subscription, error)

	// RenewWithDebit extends the subscription and records the system
	// payout that debits the guild's collected balance, atomically. The
	// renewing admin becomes the new notification contact.
	RenewWithDebit(ctx context.Context, guildID, adminUserID string, days int, now int64, debit *db_models.Payout) (*db_models.Subscription, error)

	ListExpired(ctx context.Context, now int64) ([]db_models.Subscription, error)
	// MarkExpired flips active -> expired once and clears the warning
	// marker so the next cycle can warn again.
	MarkExpired(ctx context.Context, guildID string) (bool, error)

	// ListUnwarnedExpiring returns active subscriptions ending within
	// the window that have not been warned yet.
	ListUnwarnedExpiring(ctx context.Context, now, until int64) ([]db_models.Subscription, error)
	SetRenewalWarned(ctx context.Context, guildID string, at int64) error

	ListActive(ctx context.Context) ([]db_models.Subscription, error)
	CountByStatus(ctx context.Context, status db_models.SubscriptionStatus) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByGuild(ctx context.Context, guildID string) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).First(&sub, "guild_id = ?", guildID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Upsert(ctx context.Context, guildID, planName string, amountMNT int64, invoiceID, adminUserID string) (*db_models.Subscription, error) {
	var sub db_models.Subscription

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&sub, "guild_id = ?", guildID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sub = db_models.Subscription{
				GuildID:     guildID,
				PlanName:    planName,
				AmountMNT:   amountMNT,
				InvoiceID:   invoiceID,
				AdminUserID: adminUserID,
				Status:      db_models.SubStatusPending,
			}
			return tx.Create(&sub).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&sub).Updates(map[string]interface{}{
			"plan_name":     planName,
			"amount_mnt":    amountMNT,
			"invoice_id":    invoiceID,
			"admin_user_id": adminUserID,
			"status":        db_models.SubStatusPending,
		}).Error
	})

	if err != nil {
		return nil, err
	}
	sub.PlanName = planName
	sub.AmountMNT = amountMNT
	sub.InvoiceID = invoiceID
	sub.AdminUserID = adminUserID
	sub.Status = db_models.SubStatusPending
	return &sub, nil
}

func (r *subscriptionRepository) Activate(ctx context.Context, guildID string, days int, now int64) (*db_models.Subscription, error) {
	var sub db_models.Subscription

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.extend(tx, &sub, guildID, days, now)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) RenewWithDebit(ctx context.Context, guildID, adminUserID string, days int, now int64, debit *db_models.Payout) (*db_models.Subscription, error) {
	var sub db_models.Subscription

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(debit).Error; err != nil {
			return err
		}
		if err := r.extend(tx, &sub, guildID, days, now); err != nil {
			return err
		}
		if adminUserID == "" || adminUserID == sub.AdminUserID {
			return nil
		}
		if err := tx.Model(&sub).Update("admin_user_id", adminUserID).Error; err != nil {
			return err
		}
		sub.AdminUserID = adminUserID
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) extend(tx *gorm.DB, sub *db_models.Subscription, guildID string, days int, now int64) error {
	if err := tx.First(sub, "guild_id = ?", guildID).Error; err != nil {
		return err
	}

	newEnd := utils.ExtendFromUnix(now, sub.ExpiresAt, days)
	if err := tx.Model(sub).Updates(map[string]interface{}{
		"status":            db_models.SubStatusActive,
		"expires_at":        newEnd,
		"renewal_warned_at": nil,
	}).Error; err != nil {
		return err
	}

	sub.Status = db_models.SubStatusActive
	sub.ExpiresAt = newEnd
	sub.RenewalWarnedAt = nil
	return nil
}

func (r *subscriptionRepository) ListExpired(ctx context.Context, now int64) ([]db_models.Subscription, error) {
	var out []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", db_models.SubStatusActive, now).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepository) MarkExpired(ctx context.Context, guildID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("guild_id = ? AND status = ?", guildID, db_models.SubStatusActive).
		Updates(map[string]interface{}{
			"status":            db_models.SubStatusExpired,
			"renewal_warned_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) ListUnwarnedExpiring(ctx context.Context, now, until int64) ([]db_models.Subscription, error) {
	var out []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at > ? AND expires_at <= ? AND renewal_warned_at IS NULL",
			db_models.SubStatusActive, now, until).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepository) SetRenewalWarned(ctx context.Context, guildID string, at int64) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("guild_id = ?", guildID).
		Update("renewal_warned_at", at).Error
}

func (r *subscriptionRepository) ListActive(ctx context.Context) ([]db_models.Subscription, error) {
	var out []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ?", db_models.SubStatusActive).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepository) CountByStatus(ctx context.Context, status db_models.SubscriptionStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
