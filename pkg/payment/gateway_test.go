package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"apotek/pkg/payment"

	"github.com/stretchr/testify/assert"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", username)
		assert.Equal(t, "key_secret", password)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// 199.99 becomes 19999 minor units.
		assert.Equal(t, float64(19999), body["amount"])
		assert.Equal(t, "IDR", body["currency"])
		assert.Equal(t, "order-1", body["receipt"])

		json.NewEncoder(w).Encode(map[string]string{"id": "gw_order_1"})
	}))
	defer server.Close()

	client := payment.NewClient(payment.Config{
		BaseURL:   server.URL,
		KeyID:     "key_id",
		KeySecret: "key_secret",
	})

	gatewayOrderID, err := client.CreateOrder(199.99, "IDR", "order-1", map[string]string{"customer_id": "c1"})
	assert.NoError(t, err)
	assert.Equal(t, "gw_order_1", gatewayOrderID)
}

func TestClient_CreateOrder_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"amount too small"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := payment.NewClient(payment.Config{BaseURL: server.URL})
	_, err := client.CreateOrder(0.001, "IDR", "order-1", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestClient_CreateOrder_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := payment.NewClient(payment.Config{
		BaseURL: server.URL,
		Timeout: 20 * time.Millisecond,
	})
	_, err := client.CreateOrder(100, "IDR", "order-1", nil)
	assert.Error(t, err)
}

func TestClient_Refund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/pay_1/refund", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(20000), body["amount"])

		json.NewEncoder(w).Encode(map[string]string{"id": "rfnd_1"})
	}))
	defer server.Close()

	client := payment.NewClient(payment.Config{BaseURL: server.URL})
	refundID, err := client.Refund("pay_1", 200, "order cancelled")
	assert.NoError(t, err)
	assert.Equal(t, "rfnd_1", refundID)
}

func TestClient_VerifyPaymentSignature(t *testing.T) {
	client := payment.NewClient(payment.Config{KeySecret: "key_secret"})

	valid := sign("gw_order_1|pay_1", "key_secret")
	assert.True(t, client.VerifyPaymentSignature("gw_order_1", "pay_1", valid))

	// Wrong secret, wrong payment, empty signature: all fail closed.
	assert.False(t, client.VerifyPaymentSignature("gw_order_1", "pay_1", sign("gw_order_1|pay_1", "other_secret")))
	assert.False(t, client.VerifyPaymentSignature("gw_order_1", "pay_2", valid))
	assert.False(t, client.VerifyPaymentSignature("gw_order_1", "pay_1", ""))
}

func TestClient_VerifyWebhookSignature(t *testing.T) {
	client := payment.NewClient(payment.Config{
		KeySecret:     "key_secret",
		WebhookSecret: "webhook_secret",
	})

	payload := `{"event":"payment.captured","payload":{"order_id":"gw_order_1"}}`
	assert.True(t, client.VerifyWebhookSignature([]byte(payload), sign(payload, "webhook_secret")))

	// The webhook secret is distinct from the API key secret.
	assert.False(t, client.VerifyWebhookSignature([]byte(payload), sign(payload, "key_secret")))
	// A single flipped byte in the payload invalidates the signature.
	assert.False(t, client.VerifyWebhookSignature([]byte(payload+" "), sign(payload, "webhook_secret")))
}
