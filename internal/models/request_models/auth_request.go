package request_models

type IssueTokenRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	GuildID string `json:"guild_id"`
	Role    string `json:"role" binding:"required,oneof=admin manager owner"`
}
