package repositories

import (
	"apotek/internal/models"
)

// OrderRepository is the order ledger: it owns every write to the
// Order/OrderLine/Payment rows and enforces the status transition table.
// The order graph is inserted atomically; status mutations apply to the
// order and all of its lines together, never separately.
type OrderRepository interface {
	// Create inserts the order, its lines and its payment record in one
	// transaction, re-checking product availability inside it. The order
	// carries its Lines and Payment when passed in.
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error)
	ListByCustomer(customerID string, page, limit int) ([]models.Order, int64, error)
	ListByVendor(vendorID string, page, limit int) ([]models.Order, int64, error)
	ListAll(page, limit int) ([]models.Order, int64, error)
	// UpdateStatus transitions the order and all its lines to next,
	// attaching optional notes. The transition is re-checked against the
	// committed status inside the same transaction; an illegal transition
	// fails with models.ErrInvalidStatusTransition.
	UpdateStatus(id string, next models.OrderStatus, notes string) error
	// SetGatewayOrder attaches the external gateway order id to the payment
	// record after the order graph has been committed.
	SetGatewayOrder(orderID, gatewayOrderID string) error
	// SettlePayment records a gateway payment outcome and transitions the
	// order in the same transaction.
	SettlePayment(orderID, gatewayPaymentID, signature string, paymentStatus models.PaymentStatus, next models.OrderStatus) error
	// RecordRefund marks the payment refunded with the gateway refund id.
	RecordRefund(orderID, refundID string, amount float64) error
}
