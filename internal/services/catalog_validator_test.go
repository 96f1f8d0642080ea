package services_test

import (
	"testing"

	"apotek/internal/models"
	"apotek/internal/repositories"
	"apotek/internal/services"

	"github.com/stretchr/testify/assert"
)

func seedCatalog(t *testing.T) *repositories.MockProductRepository {
	t.Helper()
	repo := repositories.NewMockProductRepository()

	pharmacy := &models.Vendor{ID: "v1", Name: "Apotek Sehat", Type: models.VendorTypePharmacy, Status: models.VendorStatusApproved}
	market := &models.Vendor{ID: "v2", Name: "Pasar Segar", Type: models.VendorTypeLocalMarket, Status: models.VendorStatusApproved}
	pending := &models.Vendor{ID: "v3", Name: "Warung Baru", Type: models.VendorTypeLocalMarket, Status: models.VendorStatusPending}

	products := []models.Product{
		{ID: "p1", VendorID: "v1", Vendor: pharmacy, Name: "Paracetamol", PriceMin: 90, PriceMax: 110, MinOrderQty: 1, Available: true},
		{ID: "p2", VendorID: "v1", Vendor: pharmacy, Name: "Vitamin C", PriceMin: 40, PriceMax: 60, MinOrderQty: 2, Available: true},
		{ID: "p3", VendorID: "v2", Vendor: market, Name: "Rice 5kg", PriceMin: 60, PriceMax: 80, MinOrderQty: 1, Available: true},
		{ID: "p4", VendorID: "v1", Vendor: pharmacy, Name: "Cough Syrup", PriceMin: 30, PriceMax: 50, MinOrderQty: 1, Available: false},
		{ID: "p5", VendorID: "v3", Vendor: pending, Name: "Snacks", PriceMin: 5, PriceMax: 15, MinOrderQty: 1, Available: true},
	}
	for i := range products {
		assert.NoError(t, repo.Create(&products[i]))
	}
	return repo
}

func TestCatalogValidator_ValidCart(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	cart, err := validator.Validate([]services.OrderItemRequest{
		{ProductID: "p1", Quantity: 2, UnitPrice: 100},
		{ProductID: "p2", Quantity: 2, UnitPrice: 50, RequiresDelivery: true, DeliveryAddress: "Jl. Merdeka 1"},
	}, 300)

	assert.NoError(t, err)
	assert.Equal(t, "v1", cart.VendorID)
	assert.Equal(t, models.VendorTypePharmacy, cart.VendorType)
	assert.Equal(t, 300.0, cart.Total)
	assert.Len(t, cart.Lines, 2)

	var sum float64
	for _, line := range cart.Lines {
		sum += line.TotalAmount
	}
	assert.InDelta(t, cart.Total, sum, 0.01)
	assert.Equal(t, "Paracetamol", cart.Lines[0].ProductName)
	assert.True(t, cart.Lines[1].RequiresDelivery)
}

func TestCatalogValidator_EmptyCartRejected(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	for _, items := range [][]services.OrderItemRequest{nil, {}} {
		_, err := validator.Validate(items, 0)
		var ruleErr *services.BusinessRuleError
		assert.ErrorAs(t, err, &ruleErr)
		assert.Contains(t, ruleErr.Message, "at least one item")
	}
}

func TestCatalogValidator_UnknownProductFailsWholeCart(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	_, err := validator.Validate([]services.OrderItemRequest{
		{ProductID: "p1", Quantity: 1, UnitPrice: 100},
		{ProductID: "missing", Quantity: 1, UnitPrice: 10},
	}, 110)

	var ruleErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Message, "unavailable")
}

func TestCatalogValidator_UnavailableProduct(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	_, err := validator.Validate([]services.OrderItemRequest{
		{ProductID: "p4", Quantity: 1, UnitPrice: 40},
	}, 40)

	var ruleErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &ruleErr)
}

func TestCatalogValidator_MultiVendorCartRejected(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	_, err := validator.Validate([]services.OrderItemRequest{
		{ProductID: "p1", Quantity: 1, UnitPrice: 100},
		{ProductID: "p3", Quantity: 1, UnitPrice: 70},
	}, 170)

	var ruleErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Message, "same vendor")
}

func TestCatalogValidator_UnapprovedVendorRejected(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	_, err := validator.Validate([]services.OrderItemRequest{
		{ProductID: "p5", Quantity: 1, UnitPrice: 10},
	}, 10)

	var ruleErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Message, "Warung Baru")
}

func TestCatalogValidator_QuantityBelowMinimum(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	// p2 requires at least 2 units; one valid line does not save the cart.
	_, err := validator.Validate([]services.OrderItemRequest{
		{ProductID: "p1", Quantity: 1, UnitPrice: 100},
		{ProductID: "p2", Quantity: 1, UnitPrice: 50},
	}, 150)

	var ruleErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Message, "Vitamin C")
}

func TestCatalogValidator_PriceOutsideRange(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	for _, price := range []float64{89.99, 110.01} {
		_, err := validator.Validate([]services.OrderItemRequest{
			{ProductID: "p1", Quantity: 1, UnitPrice: price},
		}, price)
		var ruleErr *services.BusinessRuleError
		assert.ErrorAs(t, err, &ruleErr, "price %v must be rejected", price)
		assert.Contains(t, ruleErr.Message, "Paracetamol")
	}

	// Range bounds are inclusive.
	_, err := validator.Validate([]services.OrderItemRequest{
		{ProductID: "p1", Quantity: 1, UnitPrice: 110},
	}, 110)
	assert.NoError(t, err)
}

func TestCatalogValidator_TotalMismatch(t *testing.T) {
	validator := services.NewCatalogValidator(seedCatalog(t))

	_, err := validator.Validate([]services.OrderItemRequest{
		{ProductID: "p1", Quantity: 2, UnitPrice: 100},
	}, 199)

	var ruleErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Message, "total")

	// Drift within the tolerance is accepted.
	_, err = validator.Validate([]services.OrderItemRequest{
		{ProductID: "p1", Quantity: 2, UnitPrice: 100},
	}, 200.01)
	assert.NoError(t, err)
}
