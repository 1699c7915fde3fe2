package db_models

import "github.com/google/uuid"

// Membership grants one user access to one plan's role until AccessEndsAt.
// At most one active row exists per (guild, user, plan); renewals extend
// the existing row instead of inserting a duplicate. A user may hold many
// active memberships across different plans at the same time.
type Membership struct {
	BaseModel
	GuildID       string    `gorm:"index:idx_membership_key;not null"`
	UserID        string    `gorm:"index:idx_membership_key;not null"`
	PlanID        uuid.UUID `gorm:"index:idx_membership_key;not null"`
	Active        bool      `gorm:"index;default:true"`
	AccessEndsAt  int64     `gorm:"not null"` // unix seconds
	LastPaymentID string    `gorm:"index"`
}
