package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Client wraps the external payment gateway's REST API. All calls are
// bounded by the configured timeout; signature checks fail closed.
type Client struct {
	baseURL       string
	keyID         string
	keySecret     string
	webhookSecret string
	httpClient    *http.Client
}

// Config holds the gateway credentials and endpoint.
type Config struct {
	BaseURL       string
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Timeout       time.Duration
}

// NewClient creates a new gateway client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

type gatewayOrderRequest struct {
	Amount   int64             `json:"amount"` // minor currency units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type gatewayOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder opens a gateway order for the given amount and returns the
// gateway's order id. Amount is converted to minor units (x100).
func (c *Client) CreateOrder(amount float64, currency, receipt string, notes map[string]string) (string, error) {
	reqBody := gatewayOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	}
	var resp gatewayOrderResponse
	if err := c.post("/v1/orders", reqBody, &resp); err != nil {
		return "", fmt.Errorf("failed to create gateway order: %w", err)
	}
	return resp.ID, nil
}

type gatewayRefundRequest struct {
	Amount int64             `json:"amount"`
	Notes  map[string]string `json:"notes,omitempty"`
}

type gatewayRefundResponse struct {
	ID string `json:"id"`
}

// Refund initiates a refund of the captured payment and returns the
// gateway's refund id.
func (c *Client) Refund(gatewayPaymentID string, amount float64, reason string) (string, error) {
	reqBody := gatewayRefundRequest{
		Amount: int64(math.Round(amount * 100)),
		Notes:  map[string]string{"reason": reason},
	}
	var resp gatewayRefundResponse
	path := fmt.Sprintf("/v1/payments/%s/refund", gatewayPaymentID)
	if err := c.post(path, reqBody, &resp); err != nil {
		return "", fmt.Errorf("failed to initiate refund for payment %s: %w", gatewayPaymentID, err)
	}
	return resp.ID, nil
}

// VerifyPaymentSignature checks the checkout callback signature: an
// HMAC-SHA256 over "gatewayOrderID|gatewayPaymentID" keyed with the API
// secret, compared in constant time.
func (c *Client) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	expected := signPayload([]byte(gatewayOrderID+"|"+gatewayPaymentID), c.keySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks a webhook delivery: an HMAC-SHA256 over the
// raw request body keyed with the webhook secret.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	expected := signPayload(payload, c.webhookSecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) post(path string, reqBody, respBody interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(data))
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
