package request_models

type CreatePlanRequest struct {
	RoleID       string `json:"role_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	PriceMNT     int64  `json:"price_mnt" binding:"required,gt=0"`
	DurationDays int    `json:"duration_days" binding:"required,gt=0"`
	Description  string `json:"description"`
}

type UpdatePlanRequest struct {
	RoleID       string `json:"role_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	PriceMNT     int64  `json:"price_mnt" binding:"required,gt=0"`
	DurationDays int    `json:"duration_days" binding:"required,gt=0"`
	Description  string `json:"description"`
	Active       *bool  `json:"active"`
}
