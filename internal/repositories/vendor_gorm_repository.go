package repositories

import (
	"errors"
	"fmt"

	"apotek/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMVendorRepository is a GORM implementation of VendorRepository.
type GORMVendorRepository struct {
	db *gorm.DB
}

// NewGORMVendorRepository creates a new instance of GORMVendorRepository.
func NewGORMVendorRepository(db *gorm.DB) *GORMVendorRepository {
	return &GORMVendorRepository{
		db: db,
	}
}

// Create creates a new vendor in the database.
func (r *GORMVendorRepository) Create(vendor *models.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()
	}
	if vendor.Status == "" {
		vendor.Status = models.VendorStatusPending
	}
	if err := r.db.Create(vendor).Error; err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

// GetByID retrieves a vendor by its ID from the database.
func (r *GORMVendorRepository) GetByID(id string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vendor with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vendor by ID %s: %w", id, err)
	}
	return &vendor, nil
}

// UpdateStatus sets the vendor's approval status.
func (r *GORMVendorRepository) UpdateStatus(id string, status models.VendorStatus) error {
	res := r.db.Model(&models.Vendor{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update vendor %s status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vendor with ID %s for status update: %w", id, ErrNotFound)
	}
	return nil
}
