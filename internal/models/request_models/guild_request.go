package request_models

type SetManagerRoleRequest struct {
	RoleID   string `json:"role_id" binding:"required"`
	RoleName string `json:"role_name"`
}

type SetSalesChannelRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
}
