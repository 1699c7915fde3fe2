package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment is one purchase attempt against a plan, keyed by the gateway's
// invoice id. Status moves pending -> paid exactly once; "refunded" is in
// the enum for forward compatibility but nothing sets it today.
type Payment struct {
	BaseModel
	InvoiceID string        `gorm:"uniqueIndex;not null"` // QPay invoice id
	GuildID   string        `gorm:"index;not null"`
	UserID    string        `gorm:"index;not null"`
	PlanID    uuid.UUID     `gorm:"index"`
	AmountMNT int64         `gorm:"not null"`
	Status    PaymentStatus `gorm:"index;default:'pending'"`
	ShortURL  string
	QRText    string `gorm:"type:text"`
	PaidAt    *int64

	// Raw gateway payloads for traceability
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
