package response_models

import "rolevend/internal/models/db_models"

type PlanResponse struct {
	ID           string `json:"id"`
	GuildID      string `json:"guild_id"`
	RoleID       string `json:"role_id"`
	Name         string `json:"name"`
	PriceMNT     int64  `json:"price_mnt"`
	DurationDays int    `json:"duration_days"`
	Active       bool   `json:"active"`
	Description  string `json:"description,omitempty"`
}

func FromPlan(p *db_models.Plan) PlanResponse {
	return PlanResponse{
		ID:           p.ID.String(),
		GuildID:      p.GuildID,
		RoleID:       p.RoleID,
		Name:         p.Name,
		PriceMNT:     p.PriceMNT,
		DurationDays: p.DurationDays,
		Active:       p.Active,
		Description:  p.Description,
	}
}

func FromPlans(plans []db_models.Plan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, FromPlan(&plans[i]))
	}
	return out
}
