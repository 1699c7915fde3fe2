package repositories

import (
	"context"
	"errors"
	"gorm.io/gorm"
	"rolevend/internal/models/db_models"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *db_models.Payment) error
	GetByInvoiceID(ctx context.Context, invoiceID string) (*db_models.Payment, error)
	ListPending(ctx context.Context) ([]db_models.Payment, error)
	ListPendingByUser(ctx context.Context, guildID, userID string) ([]db_models.Payment, error)

	// ConfirmPaid flips a pending payment to paid inside a transaction.
	// Returns (payment, true) when this call performed the flip and
	// (payment, false) when the payment was already paid, so callers can
	// make confirmation idempotent.
	ConfirmPaid(ctx context.Context, invoiceID string, paidAt int64) (*db_models.Payment, bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *db_models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := r.db.WithContext(ctx).First(&payment, "invoice_id = ?", invoiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListPending(ctx context.Context) ([]db_models.Payment, error) {
	var payments []db_models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ?", db_models.PaymentStatusPending).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListPendingByUser(ctx context.Context, guildID, userID string) ([]db_models.Payment, error) {
	var payments []db_models.Payment
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ? AND status = ?", guildID, userID, db_models.PaymentStatusPending).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ConfirmPaid(ctx context.Context, invoiceID string, paidAt int64) (*db_models.Payment, bool, error) {
	var payment db_models.Payment
	flipped := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "invoice_id = ?", invoiceID).Error; err != nil {
			return err
		}
		if payment.Status == db_models.PaymentStatusPaid {
			return nil
		}

		result := tx.Model(&db_models.Payment{}).
			Where("invoice_id = ? AND status = ?", invoiceID, db_models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":  db_models.PaymentStatusPaid,
				"paid_at": paidAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent confirm.
			return tx.First(&payment, "invoice_id = ?", invoiceID).Error
		}

		payment.Status = db_models.PaymentStatusPaid
		payment.PaidAt = &paidAt
		flipped = true
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &payment, flipped, nil
}
