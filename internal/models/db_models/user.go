package db_models

// User caches the display name of a purchaser so analytics joins can show
// something better than a raw platform id. Upserted on every purchase.
type User struct {
	BaseModel
	UserID   string `gorm:"uniqueIndex:idx_user_guild;not null"`
	GuildID  string `gorm:"uniqueIndex:idx_user_guild;not null"`
	Username string
}
