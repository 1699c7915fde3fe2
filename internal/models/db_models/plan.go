package db_models

import (
	"gorm.io/datatypes"
)

// Plan is a sellable, time-boxed role offer inside one guild.
// Plans are soft-deleted only: historical payments and memberships keep
// their plan reference, so reads that resolve history must use Unscoped.
type Plan struct {
	BaseModel
	GuildID      string `gorm:"index;not null"`
	RoleID       string `gorm:"not null"`
	Name         string `gorm:"not null"`
	PriceMNT     int64  `gorm:"not null"` // integer tögrög, no minor units
	DurationDays int    `gorm:"not null"`
	Active       bool   `gorm:"default:true"`
	Description  string `gorm:"type:text;default:''"`

	// Optional: feature flags, perk lists, etc.
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
