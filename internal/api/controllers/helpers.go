package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
	"rolevend/pkg/utils"
)

// guildScope resolves the guild a request operates on. Admin tokens are
// pinned to their own guild; owner tokens may act on any guild.
func guildScope(c *gin.Context) (string, bool) {
	guildID := c.Param("guild_id")
	if guildID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing guild id")
		return "", false
	}
	role := c.GetString("Role")
	if role != utils.RoleOwner && c.GetString("guild_id") != guildID {
		utils.RespondError(c, http.StatusForbidden, "Token is not scoped to this guild")
		return "", false
	}
	return guildID, true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
