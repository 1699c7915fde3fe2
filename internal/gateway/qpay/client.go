package qpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Payment statuses as reported by the QPay v2 API. Anything the API does
// not confirm maps to StatusUnknown so callers never treat a transient
// failure as unpaid-forever or as paid.
const (
	StatusPaid      = "PAID"
	StatusPending   = "PENDING"
	StatusCancelled = "CANCELLED"
	StatusUnknown   = "unknown"
)

const defaultBaseURL = "https://merchant.qpay.mn"

type Config struct {
	Username    string
	Password    string
	InvoiceCode string
	BaseURL     string
}

func ConfigFromEnv() Config {
	return Config{
		Username:    os.Getenv("QPAY_USERNAME"),
		Password:    os.Getenv("QPAY_PASSWORD"),
		InvoiceCode: os.Getenv("QPAY_INVOICE_CODE"),
		BaseURL:     os.Getenv("QPAY_BASE_URL"),
	}
}

// Invoice is the subset of the invoice response the bot needs.
type Invoice struct {
	InvoiceID string `json:"invoice_id"`
	QRText    string `json:"qr_text"`
	ShortURL  string `json:"qPay_shortUrl"`
}

// PaymentURL returns the best link to hand a buyer. QPay sometimes omits
// the short url from the invoice response; the public payment page still
// resolves by invoice id.
func (i Invoice) PaymentURL() string {
	if i.ShortURL != "" {
		return i.ShortURL
	}
	return fmt.Sprintf("https://s.qpay.mn/payment/%s", i.InvoiceID)
}

type Client interface {
	CreateInvoice(ctx context.Context, amountMNT int64, description string) (*Invoice, error)
	CheckStatus(ctx context.Context, invoiceID string) string
}

type client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (Client, error) {
	if cfg.Username == "" || cfg.Password == "" || cfg.InvoiceCode == "" {
		return nil, errors.New("missing QPay credentials: set QPAY_USERNAME, QPAY_PASSWORD and QPAY_INVOICE_CODE")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *client) token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v2/auth/token", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("qpay auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("qpay auth failed: %d %s", resp.StatusCode, string(body))
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("qpay auth decode: %w", err)
	}
	if out.AccessToken == "" {
		return "", errors.New("qpay auth: empty access token")
	}
	return out.AccessToken, nil
}

func (c *client) postJSON(ctx context.Context, token, path string, payload, out interface{}) (int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("qpay %s: %d %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("qpay %s decode: %w", path, err)
	}
	return resp.StatusCode, nil
}

func (c *client) CreateInvoice(ctx context.Context, amountMNT int64, description string) (*Invoice, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"invoice_code":          c.cfg.InvoiceCode,
		"sender_invoice_no":     fmt.Sprintf("DISC_%d", time.Now().Unix()),
		"invoice_receiver_code": description,
		"invoice_description":   fmt.Sprintf("Discord Role: %s", description),
		"amount":                amountMNT,
	}

	var inv Invoice
	if _, err := c.postJSON(ctx, token, "/v2/invoice", payload, &inv); err != nil {
		return nil, err
	}
	if inv.InvoiceID == "" {
		return nil, errors.New("qpay invoice: empty invoice_id in response")
	}
	return &inv, nil
}

// CheckStatus never returns an error: transient gateway trouble yields
// StatusUnknown and an invoice with no payment rows yet yields
// StatusPending, so scanners can keep polling either way.
func (c *client) CheckStatus(ctx context.Context, invoiceID string) string {
	token, err := c.token(ctx)
	if err != nil {
		log.Printf("qpay: token failed for invoice %s: %v", invoiceID, err)
		return StatusUnknown
	}

	payload := map[string]interface{}{
		"object_type": "INVOICE",
		"object_id":   invoiceID,
	}

	var out struct {
		Rows []struct {
			PaymentStatus string `json:"payment_status"`
		} `json:"rows"`
	}
	if _, err := c.postJSON(ctx, token, "/v2/payment/check", payload, &out); err != nil {
		log.Printf("qpay: status check failed for invoice %s: %v", invoiceID, err)
		return StatusUnknown
	}

	if len(out.Rows) == 0 {
		return StatusPending
	}
	if out.Rows[0].PaymentStatus == "" {
		return StatusUnknown
	}
	return out.Rows[0].PaymentStatus
}
