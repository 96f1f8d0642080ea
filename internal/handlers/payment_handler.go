package handlers

import (
	"log"

	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
)

// gatewaySignatureHeader carries the HMAC the gateway computed over the raw
// webhook body.
const gatewaySignatureHeader = "X-Gateway-Signature"

// PaymentHandler ingests payment gateway webhooks. The route is public; the
// signature over the raw payload is the authentication.
type PaymentHandler struct {
	service *services.OrderService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.OrderService) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/webhook", h.HandleWebhook)
}

// HandleWebhook verifies and applies a gateway event. The raw body must be
// used for verification, not a re-marshalled form.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	signature := c.Get(gatewaySignatureHeader)
	if signature == "" {
		return Fail(c, fiber.StatusBadRequest, "Missing gateway signature", nil)
	}

	if err := h.service.HandleWebhook(c.Body(), signature); err != nil {
		log.Printf("Error handling gateway webhook: %v", err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Webhook processed", nil)
}
