package response_models

import "rolevend/internal/models/db_models"

type PayoutResponse struct {
	ID            string `json:"id"`
	GuildID       string `json:"guild_id"`
	GrossMNT      int64  `json:"gross_mnt"`
	FeeMNT        int64  `json:"fee_mnt"`
	NetMNT        int64  `json:"net_mnt"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Note          string `json:"note,omitempty"`
	Status        string `json:"status"`
	CreatedAt     int64  `json:"created_at"`
}

func FromPayout(p *db_models.Payout) PayoutResponse {
	return PayoutResponse{
		ID:            p.ID.String(),
		GuildID:       p.GuildID,
		GrossMNT:      p.GrossMNT,
		FeeMNT:        p.FeeMNT,
		NetMNT:        p.NetMNT,
		AccountNumber: p.AccountNumber,
		AccountName:   p.AccountName,
		Note:          p.Note,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
	}
}

func FromPayouts(list []db_models.Payout) []PayoutResponse {
	out := make([]PayoutResponse, 0, len(list))
	for i := range list {
		out = append(out, FromPayout(&list[i]))
	}
	return out
}
