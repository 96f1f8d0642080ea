package repositories

import (
	"errors"
	"fmt"

	"apotek/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts the whole order graph in one transaction. Product
// availability is re-checked inside the transaction so a product that went
// unavailable between validation and commit still fails the order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
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

	err := r.db.Transaction(func(tx *gorm.DB) error {
		productIDs := make([]string, 0, len(order.Lines))
		for _, line := range order.Lines {
			productIDs = append(productIDs, line.ProductID)
		}
		var available int64
		if err := tx.Model(&models.Product{}).
			Where("id IN ? AND available = ?", productIDs, true).
			Count(&available).Error; err != nil {
			return err
		}
		if available != int64(len(productIDs)) {
			return fmt.Errorf("a product became unavailable before commit: %w", ErrNotFound)
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its lines and payment record.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Lines").Preload("Payment").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByGatewayOrderID resolves an order from the gateway's order reference,
// used when settling webhook events.
func (r *GORMOrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	var payment models.Payment
	err := r.db.First(&payment, "gateway_order_id = ?", gatewayOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment with gateway order %s: %w", gatewayOrderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment by gateway order %s: %w", gatewayOrderID, err)
	}
	return r.GetByID(payment.OrderID)
}

// ListByCustomer returns the customer's orders, newest first, with the total
// count for pagination metadata.
func (r *GORMOrderRepository) ListByCustomer(customerID string, page, limit int) ([]models.Order, int64, error) {
	return r.list(r.db.Where("customer_id = ?", customerID), page, limit)
}

// ListByVendor returns the vendor's orders, newest first.
func (r *GORMOrderRepository) ListByVendor(vendorID string, page, limit int) ([]models.Order, int64, error) {
	return r.list(r.db.Where("vendor_id = ?", vendorID), page, limit)
}

// ListAll returns all orders, newest first. Admin only.
func (r *GORMOrderRepository) ListAll(page, limit int) ([]models.Order, int64, error) {
	return r.list(r.db, page, limit)
}

func (r *GORMOrderRepository) list(scope *gorm.DB, page, limit int) ([]models.Order, int64, error) {
	// Session makes the scope reusable for both the count and the page query.
	scope = scope.Session(&gorm.Session{})
	var total int64
	if err := scope.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	var orders []models.Order
	err := scope.Preload("Lines").Preload("Payment").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus applies the transition with a conditional update: the order
// row is only written where its status still equals the status the check ran
// against, and zero rows affected is treated as a lost race, i.e. an invalid
// transition. Order and lines change in the same transaction.
func (r *GORMOrderRepository) UpdateStatus(id string, next models.OrderStatus, notes string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to get order %s for status update: %w", id, err)
		}
		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("order %s cannot move from %s to %s: %w",
				id, order.Status, next, models.ErrInvalidStatusTransition)
		}
		updates := map[string]interface{}{"status": next}
		if notes != "" {
			updates["notes"] = notes
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, order.Status).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update order %s status: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent writer moved the order first.
			return fmt.Errorf("order %s status changed concurrently: %w",
				id, models.ErrInvalidStatusTransition)
		}
		if err := tx.Model(&models.OrderLine{}).
			Where("order_id = ?", id).
			Update("status", next).Error; err != nil {
			return fmt.Errorf("failed to update order %s lines: %w", id, err)
		}
		return nil
	})
}

// SetGatewayOrder stores the gateway order reference on the payment record.
func (r *GORMOrderRepository) SetGatewayOrder(orderID, gatewayOrderID string) error {
	res := r.db.Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Update("gateway_order_id", gatewayOrderID)
	if res.Error != nil {
		return fmt.Errorf("failed to set gateway order for %s: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment for order %s: %w", orderID, ErrNotFound)
	}
	return nil
}

// SettlePayment records the gateway outcome on the payment and moves the
// order and its lines in the same transaction.
func (r *GORMOrderRepository) SettlePayment(orderID, gatewayPaymentID, signature string, paymentStatus models.PaymentStatus, next models.OrderStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("order_id = ?", orderID).
			Updates(map[string]interface{}{
				"status":             paymentStatus,
				"gateway_payment_id": gatewayPaymentID,
				"gateway_signature":  signature,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to settle payment for order %s: %w", orderID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("payment for order %s: %w", orderID, ErrNotFound)
		}

		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return fmt.Errorf("failed to get order %s for settlement: %w", orderID, err)
		}
		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("order %s cannot move from %s to %s: %w",
				orderID, order.Status, next, models.ErrInvalidStatusTransition)
		}
		upd := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, order.Status).
			Update("status", next)
		if upd.Error != nil {
			return fmt.Errorf("failed to update order %s status: %w", orderID, upd.Error)
		}
		if upd.RowsAffected == 0 {
			return fmt.Errorf("order %s status changed concurrently: %w",
				orderID, models.ErrInvalidStatusTransition)
		}
		return tx.Model(&models.OrderLine{}).
			Where("order_id = ?", orderID).
			Update("status", next).Error
	})
}

// RecordRefund marks the payment refunded. The order itself is already
// CANCELLED by the time a refund is issued.
func (r *GORMOrderRepository) RecordRefund(orderID, refundID string, amount float64) error {
	res := r.db.Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":        models.PaymentStatusRefunded,
			"refund_id":     refundID,
			"refund_amount": amount,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to record refund for order %s: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment for order %s: %w", orderID, ErrNotFound)
	}
	return nil
}
