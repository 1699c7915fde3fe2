package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
	"rolevend/internal/models/request_models"
	"rolevend/internal/models/response_models"
	"rolevend/internal/services"
	"rolevend/pkg/utils"
)

type PaymentController struct {
	payments services.PaymentService
}

func NewPaymentController(payments services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// CreatePurchase godoc
// @Summary Create an invoice for a role plan purchase
// @Tags Payments
// @Accept json
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param body body request_models.CreatePurchaseRequest true "Purchase"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Router /guilds/{guild_id}/purchases [post]
func (ctl *PaymentController) CreatePurchase(c *gin.Context) {
	guildID := c.Param("guild_id")

	var req request_models.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	result, err := ctl.payments.CreatePurchase(c.Request.Context(), guildID, req.UserID, req.Username, planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPayment(result.Payment, result.PaymentURL), "Invoice created")
}

// CheckPurchase godoc
// @Summary Poll the gateway and grant the role once paid
// @Description Idempotent: repeated calls after payment return paid without re-granting
// @Tags Payments
// @Produce json
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} utils.APIResponse
// @Router /purchases/{invoice_id}/check [post]
func (ctl *PaymentController) CheckPurchase(c *gin.Context) {
	invoiceID := c.Param("invoice_id")

	status, payment, err := ctl.payments.CheckPurchase(c.Request.Context(), invoiceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.PaymentCheckResponse{
		InvoiceID:     payment.InvoiceID,
		GatewayStatus: status,
		Status:        string(payment.Status),
		PaidAt:        payment.PaidAt,
	}, "Payment status checked")
}

// VerifyLatestPurchase godoc
// @Summary Re-check the user's most recent pending invoice
// @Description Backup for lost invoice ids; runs the same idempotent confirmation path
// @Tags Payments
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param user_id query string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/purchases/verify-latest [post]
func (ctl *PaymentController) VerifyLatestPurchase(c *gin.Context) {
	guildID := c.Param("guild_id")
	userID := c.Query("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing user_id")
		return
	}

	status, payment, err := ctl.payments.VerifyLatest(c.Request.Context(), guildID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.PaymentCheckResponse{
		InvoiceID:     payment.InvoiceID,
		GatewayStatus: status,
		Status:        string(payment.Status),
		PaidAt:        payment.PaidAt,
	}, "Latest payment verified")
}

// GetPurchase godoc
// @Summary Get a purchase by invoice id
// @Tags Payments
// @Produce json
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} utils.APIResponse
// @Router /purchases/{invoice_id} [get]
func (ctl *PaymentController) GetPurchase(c *gin.Context) {
	payment, err := ctl.payments.GetByInvoiceID(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPayment(payment, ""), "Purchase fetched")
}

// GetPurchaseQR godoc
// @Summary Render the invoice QR as PNG
// @Tags Payments
// @Produce png
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {file} binary
// @Router /purchases/{invoice_id}/qr [get]
func (ctl *PaymentController) GetPurchaseQR(c *gin.Context) {
	png, err := ctl.payments.QRImage(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// ListPendingPurchases godoc
// @Summary List a user's pending purchases in a guild
// @Tags Payments
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param user_id query string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/purchases/pending [get]
func (ctl *PaymentController) ListPendingPurchases(c *gin.Context) {
	guildID := c.Param("guild_id")
	userID := c.Query("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing user_id")
		return
	}

	payments, err := ctl.payments.ListPendingByUser(c.Request.Context(), guildID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	out := make([]response_models.PurchaseResponse, 0, len(payments))
	for i := range payments {
		out = append(out, response_models.FromPayment(&payments[i], ""))
	}
	utils.RespondSuccess(c, out, "Pending purchases fetched")
}
