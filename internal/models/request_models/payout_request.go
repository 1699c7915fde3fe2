package request_models

type RequestPayoutRequest struct {
	RequesterID   string `json:"requester_id"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	Note          string `json:"note"`
}
