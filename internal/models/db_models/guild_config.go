package db_models

// GuildConfig holds per-guild settings.
type GuildConfig struct {
	BaseModel
	GuildID        string `gorm:"uniqueIndex;not null"`
	SalesChannelID string
	// CommissionRate is carried in the schema for future per-guild fee
	// overrides; accounting currently applies the flat platform rate.
	CommissionRate float64 `gorm:"default:0.10"`
}
