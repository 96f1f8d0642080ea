package handlers

import (
	"log"

	"apotek/internal/middleware"
	"apotek/internal/models"
	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", middleware.RequireRole(models.RoleCustomer), h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", middleware.RequireRole(models.RoleVendor), h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id/cancel", middleware.RequireRole(models.RoleCustomer), h.HandleCancelOrder)
	orderRoutes.Post("/:id/verify-payment", middleware.RequireRole(models.RoleCustomer), h.HandleVerifyPayment)
}

// HandleCreateOrder places a new order for the authenticated customer.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Validation failed", validationErrors(err))
	}

	order, err := h.service.CreateOrder(middleware.ActorFromCtx(c), req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusCreated, "Order placed successfully", order)
}

// HandleListOrders returns the caller's orders, paginated. Page and limit
// are normalized here so the meta reports the values actually applied.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := h.service.ListOrders(middleware.ActorFromCtx(c), page, limit)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return FailFromError(c, err)
	}
	return SuccessWithMeta(c, fiber.StatusOK, "Orders retrieved", orders, NewMeta(page, limit, total))
}

// HandleGetOrderByID returns one order, scoped to the caller.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(middleware.ActorFromCtx(c), c.Params("id"))
	if err != nil {
		log.Printf("Error getting order %s: %v", c.Params("id"), err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Order retrieved", order)
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=CONFIRMED CANCELLED COMPLETED"`
	Notes  string             `json:"notes" validate:"omitempty,max=500"`
}

// HandleUpdateOrderStatus moves an order along its lifecycle. Owning vendor
// only.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Validation failed", validationErrors(err))
	}

	order, err := h.service.UpdateOrderStatus(middleware.ActorFromCtx(c), c.Params("id"), req.Status, req.Notes)
	if err != nil {
		log.Printf("Error updating order %s status: %v", c.Params("id"), err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Order status updated", order)
}

// HandleCancelOrder cancels an order. Owning customer only.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.CancelOrder(middleware.ActorFromCtx(c), c.Params("id"))
	if err != nil {
		log.Printf("Error cancelling order %s: %v", c.Params("id"), err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Order cancelled", order)
}

type verifyPaymentRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}

// HandleVerifyPayment settles a checkout callback for the caller's order.
func (h *OrderHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Validation failed", validationErrors(err))
	}

	order, err := h.service.VerifyPayment(middleware.ActorFromCtx(c), c.Params("id"), req.GatewayPaymentID, req.Signature)
	if err != nil {
		log.Printf("Error verifying payment for order %s: %v", c.Params("id"), err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Payment verified", order)
}
