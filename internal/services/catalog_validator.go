package services

import (
	"fmt"
	"math"

	"apotek/internal/models"
	"apotek/internal/repositories"
)

// totalTolerance is the maximum absolute drift allowed between the
// client-declared total and the server-computed sum of line totals.
const totalTolerance = 0.01

// OrderItemRequest is one requested cart line.
type OrderItemRequest struct {
	ProductID        string  `json:"product_id" validate:"required"`
	Quantity         int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice        float64 `json:"unit_price" validate:"required,gt=0"`
	RequiresDelivery bool    `json:"requires_delivery"`
	DeliveryAddress  string  `json:"delivery_address" validate:"omitempty,max=500"`
}

// ValidatedCart is the all-or-nothing result of cart validation: the single
// resolved vendor plus order lines priced from the request.
type ValidatedCart struct {
	VendorID   string
	VendorType models.VendorType
	Lines      []models.OrderLine
	Total      float64
}

// CatalogValidator checks a requested cart against live product and vendor
// state. Every check is a hard failure; no partial result is ever returned.
type CatalogValidator struct {
	productRepo repositories.ProductRepository
}

// NewCatalogValidator creates a new CatalogValidator.
func NewCatalogValidator(productRepo repositories.ProductRepository) *CatalogValidator {
	return &CatalogValidator{
		productRepo: productRepo,
	}
}

// Validate runs the ordering rules in order: products exist and are
// available, all belong to one APPROVED vendor, each line respects the
// product's minimum quantity and price range, and the line totals sum to
// the declared total within the tolerance.
func (v *CatalogValidator) Validate(items []OrderItemRequest, declaredTotal float64) (*ValidatedCart, error) {
	if len(items) == 0 {
		return nil, NewBusinessRuleError("order must contain at least one item")
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := v.productRepo.FindAvailableByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}
	// Partial resolution means at least one product is missing or
	// unavailable; the whole order fails.
	if len(products) != len(ids) {
		return nil, NewBusinessRuleError("one or more products are unavailable or do not exist")
	}

	byID := make(map[string]models.Product, len(products))
	var vendor *models.Vendor
	for i, product := range products {
		byID[product.ID] = product
		if product.Vendor == nil {
			return nil, fmt.Errorf("product %s has no vendor attached", product.ID)
		}
		if vendor == nil {
			vendor = products[i].Vendor
		} else if vendor.ID != product.Vendor.ID {
			return nil, NewBusinessRuleError("all items must belong to the same vendor")
		}
	}
	if vendor.Status != models.VendorStatusApproved {
		return nil, NewBusinessRuleError(fmt.Sprintf("vendor %s is not approved to accept orders", vendor.Name))
	}

	lines := make([]models.OrderLine, 0, len(items))
	var computedTotal float64
	for _, item := range items {
		product := byID[item.ProductID]
		if item.Quantity < product.MinOrderQty {
			return nil, NewBusinessRuleError(fmt.Sprintf(
				"minimum order quantity for %s is %d", product.Name, product.MinOrderQty))
		}
		if item.UnitPrice < product.PriceMin || item.UnitPrice > product.PriceMax {
			return nil, NewBusinessRuleError(fmt.Sprintf(
				"price for %s must be between %.2f and %.2f", product.Name, product.PriceMin, product.PriceMax))
		}
		lineTotal := roundMoney(item.UnitPrice * float64(item.Quantity))
		computedTotal += lineTotal
		lines = append(lines, models.OrderLine{
			ProductID:        product.ID,
			ProductName:      product.Name,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			TotalAmount:      lineTotal,
			RequiresDelivery: item.RequiresDelivery,
			DeliveryAddress:  item.DeliveryAddress,
		})
	}

	computedTotal = roundMoney(computedTotal)
	// Guards against client/server price drift or a tampered total.
	if math.Abs(computedTotal-declaredTotal) > totalTolerance {
		return nil, NewBusinessRuleError(fmt.Sprintf(
			"declared total %.2f does not match computed total %.2f", declaredTotal, computedTotal))
	}

	return &ValidatedCart{
		VendorID:   vendor.ID,
		VendorType: vendor.Type,
		Lines:      lines,
		Total:      computedTotal,
	}, nil
}
