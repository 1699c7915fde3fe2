package controllers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"rolevend/internal/models/request_models"
	"rolevend/internal/models/response_models"
	"rolevend/internal/services"
	"rolevend/pkg/utils"
)

type LedgerController struct {
	ledger services.LedgerService
}

func NewLedgerController(ledger services.LedgerService) *LedgerController {
	return &LedgerController{ledger: ledger}
}

// GetBalance godoc
// @Summary Get a guild's revenue and available balance
// @Tags Ledger
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/balance [get]
func (ctl *LedgerController) GetBalance(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	balance, err := ctl.ledger.GetBalance(c.Request.Context(), guildID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, balance, "Balance fetched")
}

// RequestPayout godoc
// @Summary Request a payout of the full available balance
// @Tags Ledger
// @Accept json
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param body body request_models.RequestPayoutRequest true "Bank details"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /guilds/{guild_id}/payouts [post]
func (ctl *LedgerController) RequestPayout(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	var req request_models.RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	requester := req.RequesterID
	if requester == "" {
		requester = c.GetString("user_id")
	}

	payout, err := ctl.ledger.RequestPayout(c.Request.Context(), guildID, requester,
		req.AccountNumber, req.AccountName, req.Note)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPayout(payout), "Payout requested")
}

// ListPayouts godoc
// @Summary List a guild's payouts
// @Tags Ledger
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/payouts [get]
func (ctl *LedgerController) ListPayouts(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	payouts, err := ctl.ledger.ListPayouts(c.Request.Context(), guildID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPayouts(payouts), "Payouts fetched")
}

// ListPendingPayouts godoc
// @Summary List all pending payouts across guilds
// @Tags Ledger
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /owner/payouts/pending [get]
func (ctl *LedgerController) ListPendingPayouts(c *gin.Context) {
	payouts, err := ctl.ledger.ListPendingPayouts(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPayouts(payouts), "Pending payouts fetched")
}

// MarkPayoutDone godoc
// @Summary Mark a payout as transferred
// @Description Idempotent: an already-done payout is returned without re-notifying
// @Tags Ledger
// @Produce json
// @Param payout_id path string true "Payout ID"
// @Success 200 {object} utils.APIResponse
// @Router /owner/payouts/{payout_id}/done [post]
func (ctl *LedgerController) MarkPayoutDone(c *gin.Context) {
	payoutID, ok := parseID(c, "payout_id")
	if !ok {
		return
	}

	payout, err := ctl.ledger.MarkPayoutDone(c.Request.Context(), payoutID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPayout(payout), "Payout marked done")
}
