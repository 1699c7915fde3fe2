package request_models

type StartSubscriptionRequest struct {
	Tier string `json:"tier" binding:"required"`
}

type RenewWithBalanceRequest struct {
	Tier string `json:"tier" binding:"required"`
}
