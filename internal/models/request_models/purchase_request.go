package request_models

type CreatePurchaseRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username"`
	PlanID   string `json:"plan_id" binding:"required,uuid"`
}
