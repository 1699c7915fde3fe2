package controllers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"rolevend/internal/models/response_models"
	"rolevend/internal/services"
	"rolevend/pkg/utils"
)

type MembershipController struct {
	memberships services.MembershipService
}

func NewMembershipController(memberships services.MembershipService) *MembershipController {
	return &MembershipController{memberships: memberships}
}

// ListGuildMemberships godoc
// @Summary List a guild's active memberships
// @Tags Memberships
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param user_id query string false "Filter by user"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/memberships [get]
func (ctl *MembershipController) ListGuildMemberships(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	var err error
	var list interface{}
	if userID := c.Query("user_id"); userID != "" {
		var ms []response_models.MembershipResponse
		items, lerr := ctl.memberships.ListActiveByUser(c.Request.Context(), guildID, userID)
		err = lerr
		if lerr == nil {
			ms = response_models.FromMemberships(items)
		}
		list = ms
	} else {
		var ms []response_models.MembershipResponse
		items, lerr := ctl.memberships.ListActiveByGuild(c.Request.Context(), guildID)
		err = lerr
		if lerr == nil {
			ms = response_models.FromMemberships(items)
		}
		list = ms
	}
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, list, "Memberships fetched")
}

// ListUserMemberships godoc
// @Summary List one user's active memberships in a guild
// @Description Public: what a storefront shows a buyer about their own roles
// @Tags Memberships
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param user_id path string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/members/{user_id}/memberships [get]
func (ctl *MembershipController) ListUserMemberships(c *gin.Context) {
	guildID := c.Param("guild_id")
	userID := c.Param("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing user id")
		return
	}

	items, err := ctl.memberships.ListActiveByUser(c.Request.Context(), guildID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromMemberships(items), "Memberships fetched")
}

// RevokeMembership godoc
// @Summary Revoke a member's plan access immediately
// @Tags Memberships
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param user_id path string true "User ID"
// @Param plan_id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/memberships/{user_id}/{plan_id} [delete]
func (ctl *MembershipController) RevokeMembership(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}
	userID := c.Param("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing user id")
		return
	}
	planID, ok := parseID(c, "plan_id")
	if !ok {
		return
	}

	if err := ctl.memberships.Revoke(c.Request.Context(), guildID, userID, planID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Membership revoked")
}
