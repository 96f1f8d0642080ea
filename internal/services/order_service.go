package services

import (
	"encoding/json"
	"fmt"
	"log"

	"apotek/internal/models"
	"apotek/internal/repositories"

	"github.com/google/uuid"
)

const (
	defaultCurrency      = "IDR"
	defaultPaymentMethod = "ONLINE"
)

// PaymentGateway is the slice of the external payment provider the order
// pipeline needs. pkg/payment.Client satisfies it.
type PaymentGateway interface {
	CreateOrder(amount float64, currency, receipt string, notes map[string]string) (string, error)
	Refund(gatewayPaymentID string, amount float64, reason string) (string, error)
	VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	VerifyWebhookSignature(payload []byte, signature string) bool
}

// CreateOrderRequest is the customer's order submission.
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount   float64            `json:"total_amount" validate:"required,gt=0"`
	PaymentMethod string             `json:"payment_method" validate:"omitempty,max=32"`
}

// OrderService composes the order pipeline: catalog validation, commission
// computation, the transactional ledger write, and the best-effort gateway
// and notification side effects.
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	validator *CatalogValidator
	gateway   PaymentGateway
	notifier  Notifier
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	validator *CatalogValidator,
	gateway PaymentGateway,
	notifier Notifier,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		validator: validator,
		gateway:   gateway,
		notifier:  notifier,
	}
}

// CreateOrder validates the cart, computes the commission split and commits
// the order graph atomically at PENDING. The gateway order and the placed
// notifications happen after the commit and are best-effort: their failure
// never unwinds the order.
func (s *OrderService) CreateOrder(actor Actor, req CreateOrderRequest) (*models.Order, error) {
	if actor.Role != models.RoleCustomer {
		return nil, fmt.Errorf("only customers can place orders: %w", ErrForbidden)
	}

	cart, err := s.validator.Validate(req.Items, req.TotalAmount)
	if err != nil {
		return nil, err
	}

	commission := Commission(cart.Total, cart.VendorType)
	vendorAmount := VendorAmount(cart.Total, commission)

	method := req.PaymentMethod
	if method == "" {
		method = defaultPaymentMethod
	}

	order := &models.Order{
		ID:               uuid.New().String(),
		CustomerID:       actor.UserID,
		VendorID:         cart.VendorID,
		TotalAmount:      cart.Total,
		CommissionAmount: commission,
		Status:           models.OrderStatusPending,
		Lines:            cart.Lines,
		Payment: &models.Payment{
			TotalAmount:      cart.Total,
			CommissionAmount: commission,
			VendorAmount:     vendorAmount,
			Method:           method,
			Status:           models.PaymentStatusPending,
		},
	}
	for i := range order.Lines {
		order.Lines[i].Status = models.OrderStatusPending
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	// The order is committed; everything below is best-effort.
	if gatewayOrderID, err := s.gateway.CreateOrder(order.TotalAmount, defaultCurrency, order.ID,
		map[string]string{"customer_id": order.CustomerID}); err != nil {
		log.Printf("Warning: failed to open gateway order for %s, order stays PENDING without gateway reference: %v", order.ID, err)
	} else if err := s.orderRepo.SetGatewayOrder(order.ID, gatewayOrderID); err != nil {
		log.Printf("Warning: failed to store gateway order %s for order %s: %v", gatewayOrderID, order.ID, err)
	} else {
		order.Payment.GatewayOrderID = gatewayOrderID
	}

	s.notifier.Notify(order.CustomerID, "Order placed",
		fmt.Sprintf("Your order %s has been placed", order.ID),
		NotificationOrderPlaced, map[string]interface{}{"order_id": order.ID})
	s.notifyVendor(order.VendorID, "New order",
		fmt.Sprintf("Order %s was placed for %.2f", order.ID, order.TotalAmount),
		NotificationOrderPlaced, order.ID)

	return order, nil
}

// GetOrder returns an order scoped to the caller: customers see their own
// orders, vendors their vendor's, admins everything.
func (s *OrderService) GetOrder(actor Actor, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleCustomer:
		if order.CustomerID != actor.UserID {
			return nil, fmt.Errorf("order %s belongs to another customer: %w", orderID, ErrForbidden)
		}
	case models.RoleVendor:
		if order.VendorID != actor.VendorID {
			return nil, fmt.Errorf("order %s belongs to another vendor: %w", orderID, ErrForbidden)
		}
	default:
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrders returns the caller's orders with the total count for
// pagination.
func (s *OrderService) ListOrders(actor Actor, page, limit int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	switch actor.Role {
	case models.RoleCustomer:
		return s.orderRepo.ListByCustomer(actor.UserID, page, limit)
	case models.RoleVendor:
		return s.orderRepo.ListByVendor(actor.VendorID, page, limit)
	case models.RoleAdmin:
		return s.orderRepo.ListAll(page, limit)
	default:
		return nil, 0, ErrForbidden
	}
}

// UpdateOrderStatus lets the owning vendor move an order along the lifecycle.
// The transition itself is re-validated inside the ledger transaction.
func (s *OrderService) UpdateOrderStatus(actor Actor, orderID string, next models.OrderStatus, notes string) (*models.Order, error) {
	if !next.Valid() || next == models.OrderStatusDraft || next == models.OrderStatusPending {
		return nil, NewBusinessRuleError(fmt.Sprintf("status %s cannot be set directly", next))
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleVendor || order.VendorID != actor.VendorID {
		return nil, fmt.Errorf("order %s is not owned by the caller: %w", orderID, ErrForbidden)
	}

	if err := s.orderRepo.UpdateStatus(orderID, next, notes); err != nil {
		return nil, err
	}

	s.notifier.Notify(order.CustomerID, "Order update",
		fmt.Sprintf("Your order %s is now %s", orderID, next),
		NotificationOrderStatus, map[string]interface{}{"order_id": orderID, "status": string(next)})

	return s.orderRepo.GetByID(orderID)
}

// CancelOrder lets the owning customer cancel an order that is not yet
// COMPLETED. When the payment had already been captured, a refund is issued
// best-effort: a gateway failure is logged for out-of-band reconciliation
// and the cancellation still stands.
func (s *OrderService) CancelOrder(actor Actor, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleCustomer || order.CustomerID != actor.UserID {
		return nil, fmt.Errorf("order %s is not owned by the caller: %w", orderID, ErrForbidden)
	}
	if order.Status == models.OrderStatusCompleted {
		return nil, NewBusinessRuleError("a completed order cannot be cancelled")
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, NewBusinessRuleError("order is already cancelled")
	}

	if err := s.orderRepo.UpdateStatus(orderID, models.OrderStatusCancelled, ""); err != nil {
		return nil, err
	}

	// Refund only a captured payment, exactly once, for the full amount.
	if order.Payment != nil && order.Payment.Status == models.PaymentStatusSuccess {
		refundID, err := s.gateway.Refund(order.Payment.GatewayPaymentID, order.Payment.TotalAmount, "order cancelled")
		if err != nil {
			log.Printf("Warning: refund for cancelled order %s failed, needs reconciliation: %v", orderID, err)
		} else if err := s.orderRepo.RecordRefund(orderID, refundID, order.Payment.TotalAmount); err != nil {
			log.Printf("Warning: failed to record refund %s for order %s: %v", refundID, orderID, err)
		}
	}

	s.notifyVendor(order.VendorID, "Order cancelled",
		fmt.Sprintf("Order %s was cancelled by the customer", orderID),
		NotificationOrderStatus, orderID)

	return s.orderRepo.GetByID(orderID)
}

// VerifyPayment settles a checkout callback: the signature over
// "gatewayOrderID|gatewayPaymentID" must match, then the payment is marked
// SUCCESS and the order advances to CONFIRMED. Verification fails closed.
func (s *OrderService) VerifyPayment(actor Actor, orderID, gatewayPaymentID, signature string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleCustomer || order.CustomerID != actor.UserID {
		return nil, fmt.Errorf("order %s is not owned by the caller: %w", orderID, ErrForbidden)
	}
	if order.Payment == nil || order.Payment.GatewayOrderID == "" {
		return nil, NewBusinessRuleError("order has no gateway payment to verify")
	}
	if !s.gateway.VerifyPaymentSignature(order.Payment.GatewayOrderID, gatewayPaymentID, signature) {
		return nil, ErrInvalidSignature
	}

	if err := s.orderRepo.SettlePayment(orderID, gatewayPaymentID, signature,
		models.PaymentStatusSuccess, models.OrderStatusConfirmed); err != nil {
		return nil, err
	}

	s.notifyVendor(order.VendorID, "Payment received",
		fmt.Sprintf("Payment for order %s was captured", orderID),
		NotificationOrderStatus, orderID)

	return s.orderRepo.GetByID(orderID)
}

// webhookEvent is the gateway's webhook envelope.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		GatewayOrderID   string `json:"order_id"`
		GatewayPaymentID string `json:"payment_id"`
		RefundID         string `json:"refund_id"`
		Amount           int64  `json:"amount"` // minor currency units
	} `json:"payload"`
}

// HandleWebhook ingests a gateway webhook. The signature over the raw
// payload is verified before anything is acted on; a mismatch rejects the
// delivery. Unknown events are acknowledged and ignored.
func (s *OrderService) HandleWebhook(payload []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(payload, signature) {
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	switch event.Event {
	case "payment.captured":
		return s.settleFromWebhook(event, models.PaymentStatusSuccess, models.OrderStatusConfirmed)
	case "payment.failed":
		return s.settleFromWebhook(event, models.PaymentStatusFailed, models.OrderStatusCancelled)
	case "refund.processed":
		order, err := s.orderRepo.GetByGatewayOrderID(event.Payload.GatewayOrderID)
		if err != nil {
			return err
		}
		amount := float64(event.Payload.Amount) / 100
		return s.orderRepo.RecordRefund(order.ID, event.Payload.RefundID, amount)
	default:
		log.Printf("Ignoring unhandled gateway event %q", event.Event)
		return nil
	}
}

func (s *OrderService) settleFromWebhook(event webhookEvent, paymentStatus models.PaymentStatus, next models.OrderStatus) error {
	order, err := s.orderRepo.GetByGatewayOrderID(event.Payload.GatewayOrderID)
	if err != nil {
		return err
	}
	// Redelivered webhooks for an already-settled payment are a no-op.
	if order.Payment != nil && order.Payment.Status == paymentStatus {
		return nil
	}
	// The order reached a terminal state before the event arrived, e.g. the
	// customer cancelled while the capture was in flight. Acknowledge so the
	// gateway stops redelivering; the money side is reconciled out of band.
	if order.Status.Terminal() {
		log.Printf("Ignoring %s for order %s already in %s", event.Event, order.ID, order.Status)
		return nil
	}

	if err := s.orderRepo.SettlePayment(order.ID, event.Payload.GatewayPaymentID, "",
		paymentStatus, next); err != nil {
		return err
	}

	title, message := "Order update", fmt.Sprintf("Your order %s is now %s", order.ID, next)
	if paymentStatus == models.PaymentStatusFailed {
		title, message = "Payment failed", fmt.Sprintf("Payment for order %s failed and the order was cancelled", order.ID)
	}
	s.notifier.Notify(order.CustomerID, title, message,
		NotificationOrderStatus, map[string]interface{}{"order_id": order.ID, "status": string(next)})
	return nil
}

// notifyVendor resolves the vendor's operating user and notifies them.
// Lookup failures are logged and swallowed like any notification failure.
func (s *OrderService) notifyVendor(vendorID, title, message, notificationType, orderID string) {
	vendorUser, err := s.userRepo.GetByVendorID(vendorID)
	if err != nil {
		log.Printf("Warning: cannot resolve user for vendor %s, dropping notification: %v", vendorID, err)
		return
	}
	s.notifier.Notify(vendorUser.ID, title, message, notificationType,
		map[string]interface{}{"order_id": orderID})
}
