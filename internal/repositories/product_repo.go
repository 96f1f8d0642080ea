package repositories

import (
	"apotek/internal/models"
)

// ProductRepository defines the interface for product data access. The order
// pipeline only uses FindAvailableByIDs; the rest serves the catalog
// write-side used by vendors.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	// FindAvailableByIDs resolves only products that exist and are currently
	// available, with their vendor attached. Callers compare the result
	// length against the request to detect missing or unavailable products.
	FindAvailableByIDs(ids []string) ([]models.Product, error)
	ListByVendor(vendorID string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
