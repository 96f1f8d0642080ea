package services

import (
	"fmt"

	"apotek/internal/models"
	"apotek/internal/repositories"
)

// ProductService handles the catalog write-side used by vendors. The order
// pipeline never goes through here; it reads via the CatalogValidator.
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// ListVendorProducts retrieves the caller's own products.
func (s *ProductService) ListVendorProducts(actor Actor) ([]models.Product, error) {
	if actor.Role != models.RoleVendor {
		return nil, ErrForbidden
	}
	return s.productRepo.ListByVendor(actor.VendorID)
}

// CreateProduct adds a product to the caller's own catalog.
func (s *ProductService) CreateProduct(actor Actor, product *models.Product) error {
	if actor.Role != models.RoleVendor {
		return ErrForbidden
	}
	if product.MinOrderQty < 1 {
		product.MinOrderQty = 1
	}
	product.VendorID = actor.VendorID
	return s.productRepo.Create(product)
}

// UpdateProduct updates a product the caller owns.
func (s *ProductService) UpdateProduct(actor Actor, product *models.Product) error {
	existing, err := s.productRepo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleVendor || existing.VendorID != actor.VendorID {
		return fmt.Errorf("product %s is not owned by the caller: %w", product.ID, ErrForbidden)
	}
	product.VendorID = existing.VendorID
	return s.productRepo.Update(product)
}

// DeleteProduct removes a product the caller owns.
func (s *ProductService) DeleteProduct(actor Actor, id string) error {
	existing, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleVendor || existing.VendorID != actor.VendorID {
		return fmt.Errorf("product %s is not owned by the caller: %w", id, ErrForbidden)
	}
	return s.productRepo.Delete(id)
}
