package controllers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"rolevend/internal/models/request_models"
	"rolevend/internal/models/response_models"
	"rolevend/internal/services"
	"rolevend/pkg/utils"
)

type SubscriptionController struct {
	subscriptions services.SubscriptionService
}

func NewSubscriptionController(subscriptions services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptions: subscriptions}
}

// ListTiers godoc
// @Summary List available subscription tiers
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /subscriptions/tiers [get]
func (ctl *SubscriptionController) ListTiers(c *gin.Context) {
	utils.RespondSuccess(c, ctl.subscriptions.ListTiers(), "Tiers fetched")
}

// GetSubscription godoc
// @Summary Get a guild's subscription status
// @Tags Subscriptions
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/subscription [get]
func (ctl *SubscriptionController) GetSubscription(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	sub, err := ctl.subscriptions.Get(c.Request.Context(), guildID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromSubscription(sub), "Subscription fetched")
}

// StartSubscription godoc
// @Summary Create an invoice for a subscription tier
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param body body request_models.StartSubscriptionRequest true "Tier"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/subscription [post]
func (ctl *SubscriptionController) StartSubscription(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	var req request_models.StartSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	purchase, err := ctl.subscriptions.StartPurchase(c.Request.Context(), guildID, c.GetString("user_id"), req.Tier)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.SubscriptionPurchaseResponse{
		Subscription: response_models.FromSubscription(purchase.Subscription),
		PaymentURL:   purchase.PaymentURL,
		QRText:       purchase.QRText,
	}, "Subscription invoice created")
}

// CheckSubscription godoc
// @Summary Poll the gateway and activate the subscription once paid
// @Tags Subscriptions
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/subscription/check [post]
func (ctl *SubscriptionController) CheckSubscription(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	status, sub, err := ctl.subscriptions.CheckPurchase(c.Request.Context(), guildID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{
		"gateway_status": status,
		"subscription":   response_models.FromSubscription(sub),
	}, "Subscription status checked")
}

// RenewWithBalance godoc
// @Summary Renew the subscription from collected balance
// @Description Debits the guild's available balance and extends the subscription atomically
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param body body request_models.RenewWithBalanceRequest true "Tier"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /guilds/{guild_id}/subscription/renew [post]
func (ctl *SubscriptionController) RenewWithBalance(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	var req request_models.RenewWithBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := ctl.subscriptions.RenewWithBalance(c.Request.Context(), guildID, c.GetString("user_id"), req.Tier)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromSubscription(sub), "Subscription renewed from balance")
}
