package response_models

import "rolevend/internal/models/db_models"

type PurchaseResponse struct {
	InvoiceID  string `json:"invoice_id"`
	AmountMNT  int64  `json:"amount_mnt"`
	PaymentURL string `json:"payment_url"`
	QRText     string `json:"qr_text,omitempty"`
	Status     string `json:"status"`
}

func FromPayment(p *db_models.Payment, paymentURL string) PurchaseResponse {
	if paymentURL == "" {
		paymentURL = p.ShortURL
	}
	return PurchaseResponse{
		InvoiceID:  p.InvoiceID,
		AmountMNT:  p.AmountMNT,
		PaymentURL: paymentURL,
		QRText:     p.QRText,
		Status:     string(p.Status),
	}
}

type PaymentCheckResponse struct {
	InvoiceID     string `json:"invoice_id"`
	GatewayStatus string `json:"gateway_status"`
	Status        string `json:"status"`
	PaidAt        *int64 `json:"paid_at,omitempty"`
}
