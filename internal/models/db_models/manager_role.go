package db_models

// ManagerRole is the optional per-guild role that may manage the plan
// catalog (never money). One row per guild, replaced on set.
type ManagerRole struct {
	BaseModel
	GuildID  string `gorm:"uniqueIndex;not null"`
	RoleID   string `gorm:"not null"`
	RoleName string
}
