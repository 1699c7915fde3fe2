package db_models

type SubscriptionStatus string

const (
	SubStatusPending SubscriptionStatus = "pending"
	SubStatusActive  SubscriptionStatus = "active"
	SubStatusExpired SubscriptionStatus = "expired"
)

// Subscription is the guild's own paid right to use the product (bot
// rental). Exactly one row per guild, upsert semantics.
//
// AdminUserID is the admin who last bought or renewed the rental;
// expiry and renewal-warning notices are DMed to them.
//
// RenewalWarnedAt persists the expiring-soon warning suppression so a
// process restart does not re-spam admins. It is cleared when the
// subscription expires and when it is successfully renewed.
type Subscription struct {
	BaseModel
	GuildID         string `gorm:"uniqueIndex;not null"`
	PlanName        string
	AmountMNT       int64
	InvoiceID       string             `gorm:"index"`
	AdminUserID     string             `gorm:"index"`
	ExpiresAt       int64              `gorm:"not null"` // unix seconds
	Status          SubscriptionStatus `gorm:"index;default:'pending'"`
	RenewalWarnedAt *int64
}
