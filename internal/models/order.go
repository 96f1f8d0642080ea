package models

import (
	"errors"
	"time"
)

// OrderStatus is the lifecycle state of an order and its lines.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ErrInvalidStatusTransition is returned by the order ledger when a requested
// transition is not in the allowed table for the order's current status.
var ErrInvalidStatusTransition = errors.New("invalid order status transition")

// orderTransitions is the closed transition table. COMPLETED and CANCELLED
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:     {OrderStatusPending, OrderStatusCancelled},
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are permitted from s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether s -> next is in the allowed table.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus is the settlement state of an order's payment record.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Order is the aggregate root for a customer's purchase from one vendor.
// Orders are never deleted; cancellation is a status.
type Order struct {
	ID               string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID       string      `json:"customer_id" gorm:"index;type:varchar(36)"`
	VendorID         string      `json:"vendor_id" gorm:"index;type:varchar(36)"`
	TotalAmount      float64     `json:"total_amount"`
	CommissionAmount float64     `json:"commission_amount"`
	Status           OrderStatus `json:"status" gorm:"type:varchar(16);index"`
	Notes            string      `json:"notes,omitempty" gorm:"type:varchar(500)"`
	Lines            []OrderLine `json:"items" gorm:"foreignKey:OrderID"`
	Payment          *Payment    `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// OrderLine is one product line within an order. Its status always mirrors
// the parent order's status after any transition.
type OrderLine struct {
	ID               string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID          string      `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID        string      `json:"product_id" gorm:"type:varchar(36)"`
	ProductName      string      `json:"product_name" gorm:"type:varchar(100)"`
	Quantity         int         `json:"quantity"`
	UnitPrice        float64     `json:"unit_price"`
	TotalAmount      float64     `json:"total_amount"`
	RequiresDelivery bool        `json:"requires_delivery"`
	DeliveryAddress  string      `json:"delivery_address,omitempty" gorm:"type:varchar(500)"`
	Status           OrderStatus `json:"status" gorm:"type:varchar(16)"`
}

// Payment tracks the money side of exactly one order. It is inserted in the
// same transaction as the order and updated as gateway events arrive.
type Payment struct {
	ID               string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID          string        `json:"order_id" gorm:"uniqueIndex;type:varchar(36)"`
	TotalAmount      float64       `json:"total_amount"`
	CommissionAmount float64       `json:"commission_amount"`
	VendorAmount     float64       `json:"vendor_amount"`
	Method           string        `json:"method" gorm:"type:varchar(32)"`
	Status           PaymentStatus `json:"status" gorm:"type:varchar(16)"`
	GatewayOrderID   string        `json:"gateway_order_id,omitempty" gorm:"index;type:varchar(64)"`
	GatewayPaymentID string        `json:"gateway_payment_id,omitempty" gorm:"type:varchar(64)"`
	GatewaySignature string        `json:"-" gorm:"type:varchar(128)"`
	RefundID         string        `json:"refund_id,omitempty" gorm:"type:varchar(64)"`
	RefundAmount     float64       `json:"refund_amount,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
