package services

import (
	"fmt"

	"apotek/internal/models"
	"apotek/internal/repositories"
)

// VendorService handles the admin side of vendor lifecycle.
type VendorService struct {
	vendorRepo repositories.VendorRepository
	userRepo   repositories.UserRepository
	notifier   Notifier
}

// NewVendorService creates a new VendorService.
func NewVendorService(vendorRepo repositories.VendorRepository, userRepo repositories.UserRepository, notifier Notifier) *VendorService {
	return &VendorService{
		vendorRepo: vendorRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// GetVendor retrieves a vendor by ID.
func (s *VendorService) GetVendor(id string) (*models.Vendor, error) {
	return s.vendorRepo.GetByID(id)
}

// ApproveVendor moves a vendor to APPROVED so it can accept orders, and
// notifies the vendor's operator best-effort.
func (s *VendorService) ApproveVendor(actor Actor, vendorID string) (*models.Vendor, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("only admins approve vendors: %w", ErrForbidden)
	}

	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.Status == models.VendorStatusApproved {
		return nil, NewBusinessRuleError(fmt.Sprintf("vendor %s is already approved", vendor.Name))
	}

	if err := s.vendorRepo.UpdateStatus(vendorID, models.VendorStatusApproved); err != nil {
		return nil, err
	}

	if vendorUser, err := s.userRepo.GetByVendorID(vendorID); err == nil {
		s.notifier.Notify(vendorUser.ID, "Vendor approved",
			fmt.Sprintf("%s can now accept orders", vendor.Name),
			NotificationVendorApproved, map[string]interface{}{"vendor_id": vendorID})
	}

	return s.vendorRepo.GetByID(vendorID)
}
