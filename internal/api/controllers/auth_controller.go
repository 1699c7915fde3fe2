package controllers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"os"
	"time"
	"rolevend/internal/models/request_models"
	"rolevend/pkg/utils"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// IssueToken godoc
// @Summary Mint an API token for an admin or the owner
// @Description Requires the operator's provisioning key in X-Api-Key
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-Api-Key header string true "Provisioning key"
// @Param body body request_models.IssueTokenRequest true "Token subject"
// @Success 200 {object} utils.APIResponse
// @Router /auth/token [post]
func (ctl *AuthController) IssueToken(c *gin.Context) {
	provisionKey := os.Getenv("OWNER_API_KEY")
	if provisionKey == "" || c.GetHeader("X-Api-Key") != provisionKey {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid provisioning key")
		return
	}

	var req request_models.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (req.Role == utils.RoleAdmin || req.Role == utils.RoleManager) && req.GuildID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Guild-scoped tokens require a guild_id")
		return
	}

	token, err := utils.CreateToken(req.UserID, req.GuildID, req.Role, 30*24*time.Hour)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, "Token issued")
}
