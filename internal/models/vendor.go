package models

import "gorm.io/gorm"

// VendorType drives the commission rate applied to the vendor's orders.
type VendorType string

const (
	VendorTypePharmacy    VendorType = "PHARMACY"
	VendorTypeLocalMarket VendorType = "LOCAL_MARKET"
)

// VendorStatus gates whether a vendor may accept orders.
type VendorStatus string

const (
	VendorStatusPending   VendorStatus = "PENDING"
	VendorStatusApproved  VendorStatus = "APPROVED"
	VendorStatusSuspended VendorStatus = "SUSPENDED"
)

// Vendor is a selling party. Only APPROVED vendors can appear on new orders.
type Vendor struct {
	ID         string       `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string       `json:"user_id" gorm:"index;type:varchar(36)"`
	Name       string       `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Type       VendorType   `json:"type" gorm:"type:varchar(32)" validate:"required,oneof=PHARMACY LOCAL_MARKET"`
	Status     VendorStatus `json:"status" gorm:"type:varchar(16)"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
