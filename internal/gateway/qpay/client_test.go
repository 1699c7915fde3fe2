package qpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		Username:    "merchant",
		Password:    "secret",
		InvoiceCode: "CODE",
		BaseURL:     baseURL,
	}
}

func newTestServer(t *testing.T, check func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v2/auth/token" {
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "merchant", user)
			assert.Equal(t, "secret", pass)
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		check(w, r)
	}))
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{Username: "u"})
	require.Error(t, err)
}

func TestCreateInvoice(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/invoice", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "CODE", payload["invoice_code"])
		assert.Equal(t, float64(5000), payload["amount"])
		assert.Contains(t, payload["sender_invoice_no"], "DISC_")
		assert.Equal(t, "Discord Role: VIP", payload["invoice_description"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"invoice_id":    "inv-123",
			"qr_text":       "qr-payload",
			"qPay_shortUrl": "https://s.qpay.mn/x",
		})
	})
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	inv, err := client.CreateInvoice(context.Background(), 5000, "VIP")
	require.NoError(t, err)
	assert.Equal(t, "inv-123", inv.InvoiceID)
	assert.Equal(t, "qr-payload", inv.QRText)
	assert.Equal(t, "https://s.qpay.mn/x", inv.PaymentURL())
}

func TestInvoicePaymentURLFallback(t *testing.T) {
	inv := Invoice{InvoiceID: "abc"}
	assert.Equal(t, "https://s.qpay.mn/payment/abc", inv.PaymentURL())
}

func TestCheckStatusPaid(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/payment/check", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "INVOICE", payload["object_type"])
		assert.Equal(t, "inv-123", payload["object_id"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"rows": []map[string]string{{"payment_status": "PAID"}},
		})
	})
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, client.CheckStatus(context.Background(), "inv-123"))
}

func TestCheckStatusNoRowsMeansPending(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"rows": []interface{}{}})
	})
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, client.CheckStatus(context.Background(), "inv-1"))
}

func TestCheckStatusAPIErrorMeansUnknown(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, StatusUnknown, client.CheckStatus(context.Background(), "inv-1"))
}

func TestCheckStatusAuthFailureMeansUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, StatusUnknown, client.CheckStatus(context.Background(), "inv-1"))
}

func TestQRPNG(t *testing.T) {
	png, err := QRPNG("some-qr-text", 256)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
