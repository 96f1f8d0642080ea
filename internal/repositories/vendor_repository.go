package repositories

import "apotek/internal/models"

// VendorRepository defines the interface for vendor data access. Vendors are
// read-only from the order pipeline's perspective; UpdateStatus exists for
// the admin approval flow.
type VendorRepository interface {
	Create(vendor *models.Vendor) error
	GetByID(id string) (*models.Vendor, error)
	UpdateStatus(id string, status models.VendorStatus) error
}
