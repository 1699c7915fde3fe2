package controllers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"rolevend/internal/models/request_models"
	"rolevend/internal/repositories"
	"rolevend/pkg/utils"
)

type GuildController struct {
	guilds repositories.GuildRepository
}

func NewGuildController(guilds repositories.GuildRepository) *GuildController {
	return &GuildController{guilds: guilds}
}

// GetManagerRole godoc
// @Summary Get the guild's manager role
// @Tags Guilds
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/manager-role [get]
func (ctl *GuildController) GetManagerRole(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	role, err := ctl.guilds.GetManagerRole(c.Request.Context(), guildID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if role == nil {
		utils.RespondError(c, http.StatusNotFound, "No manager role configured")
		return
	}
	utils.RespondSuccess(c, role, "Manager role fetched")
}

// SetManagerRole godoc
// @Summary Set the guild's manager role
// @Tags Guilds
// @Accept json
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param body body request_models.SetManagerRoleRequest true "Role"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/manager-role [put]
func (ctl *GuildController) SetManagerRole(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	var req request_models.SetManagerRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	role, err := ctl.guilds.SetManagerRole(c.Request.Context(), guildID, req.RoleID, req.RoleName)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, role, "Manager role set")
}

// ClearManagerRole godoc
// @Summary Remove the guild's manager role
// @Tags Guilds
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/manager-role [delete]
func (ctl *GuildController) ClearManagerRole(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	if err := ctl.guilds.ClearManagerRole(c.Request.Context(), guildID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Manager role cleared")
}

// SetSalesChannel godoc
// @Summary Set the channel used for sales announcements and warnings
// @Tags Guilds
// @Accept json
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param body body request_models.SetSalesChannelRequest true "Channel"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/sales-channel [put]
func (ctl *GuildController) SetSalesChannel(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	var req request_models.SetSalesChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg, err := ctl.guilds.SetSalesChannel(c.Request.Context(), guildID, req.ChannelID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cfg, "Sales channel set")
}
