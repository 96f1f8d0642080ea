package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"apotek/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It enforces the same transition table as the GORM implementation so
// service tests exercise the real state machine.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order graph. Unlike the GORM ledger it cannot re-check
// product availability, since products live in a different repository.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Lines {
		if order.Lines[i].ID == "" {
			order.Lines[i].ID = uuid.New().String()
		}
		order.Lines[i].OrderID = order.ID
	}
	if order.Payment != nil {
		if order.Payment.ID == "" {
			order.Payment.ID = uuid.New().String()
		}
		order.Payment.OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	copied := cloneOrder(order)
	return &copied, nil
}

// GetByGatewayOrderID resolves an order from the gateway order reference.
func (r *MockOrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.Payment != nil && order.Payment.GatewayOrderID == gatewayOrderID {
			copied := cloneOrder(order)
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("payment with gateway order %s: %w", gatewayOrderID, ErrNotFound)
}

// ListByCustomer returns the customer's orders, newest first.
func (r *MockOrderRepository) ListByCustomer(customerID string, page, limit int) ([]models.Order, int64, error) {
	return r.list(func(o models.Order) bool { return o.CustomerID == customerID }, page, limit)
}

// ListByVendor returns the vendor's orders, newest first.
func (r *MockOrderRepository) ListByVendor(vendorID string, page, limit int) ([]models.Order, int64, error) {
	return r.list(func(o models.Order) bool { return o.VendorID == vendorID }, page, limit)
}

// ListAll returns every order, newest first.
func (r *MockOrderRepository) ListAll(page, limit int) ([]models.Order, int64, error) {
	return r.list(func(models.Order) bool { return true }, page, limit)
}

func (r *MockOrderRepository) list(match func(models.Order) bool, page, limit int) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0)
	for _, order := range r.orders {
		if match(order) {
			matched = append(matched, cloneOrder(order))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Order{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// UpdateStatus transitions the order and its lines, enforcing the allowed
// transition table.
func (r *MockOrderRepository) UpdateStatus(id string, next models.OrderStatus, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("order %s cannot move from %s to %s: %w",
			id, order.Status, next, models.ErrInvalidStatusTransition)
	}
	order.Status = next
	if notes != "" {
		order.Notes = notes
	}
	for i := range order.Lines {
		order.Lines[i].Status = next
	}
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// SetGatewayOrder stores the gateway order reference on the payment record.
func (r *MockOrderRepository) SetGatewayOrder(orderID, gatewayOrderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || order.Payment == nil {
		return fmt.Errorf("payment for order %s: %w", orderID, ErrNotFound)
	}
	order.Payment.GatewayOrderID = gatewayOrderID
	r.orders[orderID] = order
	return nil
}

// SettlePayment records the gateway outcome and transitions the order.
func (r *MockOrderRepository) SettlePayment(orderID, gatewayPaymentID, signature string, paymentStatus models.PaymentStatus, next models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || order.Payment == nil {
		return fmt.Errorf("payment for order %s: %w", orderID, ErrNotFound)
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("order %s cannot move from %s to %s: %w",
			orderID, order.Status, next, models.ErrInvalidStatusTransition)
	}
	order.Payment.Status = paymentStatus
	order.Payment.GatewayPaymentID = gatewayPaymentID
	order.Payment.GatewaySignature = signature
	order.Status = next
	for i := range order.Lines {
		order.Lines[i].Status = next
	}
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order
	return nil
}

// RecordRefund marks the payment refunded.
func (r *MockOrderRepository) RecordRefund(orderID, refundID string, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || order.Payment == nil {
		return fmt.Errorf("payment for order %s: %w", orderID, ErrNotFound)
	}
	order.Payment.Status = models.PaymentStatusRefunded
	order.Payment.RefundID = refundID
	order.Payment.RefundAmount = amount
	r.orders[orderID] = order
	return nil
}

func cloneOrder(order models.Order) models.Order {
	copied := order
	copied.Lines = make([]models.OrderLine, len(order.Lines))
	copy(copied.Lines, order.Lines)
	if order.Payment != nil {
		payment := *order.Payment
		copied.Payment = &payment
	}
	return copied
}
