package models

import "gorm.io/gorm"

// Product is a catalog entry owned by exactly one vendor. The order pipeline
// only ever reads products; the write-side lives with the vendor endpoints.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	VendorID    string  `json:"vendor_id" gorm:"index;type:varchar(36)" validate:"required"`
	Vendor      *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	PriceMin    float64 `json:"price_min" validate:"required,gt=0"`
	PriceMax    float64 `json:"price_max" validate:"required,gtefield=PriceMin"`
	MinOrderQty int     `json:"min_order_qty" validate:"gte=1"`
	Available   bool    `json:"available"`
	gorm.Model  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
