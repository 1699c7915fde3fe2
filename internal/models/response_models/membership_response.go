package response_models

import "rolevend/internal/models/db_models"

type MembershipResponse struct {
	ID           string `json:"id"`
	GuildID      string `json:"guild_id"`
	UserID       string `json:"user_id"`
	PlanID       string `json:"plan_id"`
	Active       bool   `json:"active"`
	AccessEndsAt int64  `json:"access_ends_at"`
}

func FromMembership(m *db_models.Membership) MembershipResponse {
	return MembershipResponse{
		ID:           m.ID.String(),
		GuildID:      m.GuildID,
		UserID:       m.UserID,
		PlanID:       m.PlanID.String(),
		Active:       m.Active,
		AccessEndsAt: m.AccessEndsAt,
	}
}

func FromMemberships(list []db_models.Membership) []MembershipResponse {
	out := make([]MembershipResponse, 0, len(list))
	for i := range list {
		out = append(out, FromMembership(&list[i]))
	}
	return out
}
