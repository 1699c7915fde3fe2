package response_models

import "rolevend/internal/models/db_models"

type SubscriptionResponse struct {
	GuildID   string `json:"guild_id"`
	PlanName  string `json:"plan_name"`
	AmountMNT int64  `json:"amount_mnt"`
	Status    string `json:"status"`
	ExpiresAt int64  `json:"expires_at"`
}

func FromSubscription(s *db_models.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		GuildID:   s.GuildID,
		PlanName:  s.PlanName,
		AmountMNT: s.AmountMNT,
		Status:    string(s.Status),
		ExpiresAt: s.ExpiresAt,
	}
}

type SubscriptionPurchaseResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	PaymentURL   string               `json:"payment_url"`
	QRText       string               `json:"qr_text,omitempty"`
}
