package handlers

import (
	"log"

	"apotek/internal/middleware"
	"apotek/internal/models"
	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterPublicRoutes registers the catalog read routes.
func (h *ProductHandler) RegisterPublicRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// RegisterRoutes registers the vendor catalog write routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products", middleware.RequireRole(models.RoleVendor))
	productRoutes.Get("/mine", h.HandleListVendorProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Products retrieved", products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Product retrieved", product)
}

// HandleListVendorProducts lists the caller's own products.
func (h *ProductHandler) HandleListVendorProducts(c *fiber.Ctx) error {
	products, err := h.service.ListVendorProducts(middleware.ActorFromCtx(c))
	if err != nil {
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Products retrieved", products)
}

// HandleCreateProduct creates a product in the caller's catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	product.VendorID = middleware.ActorFromCtx(c).VendorID
	if err := validate.Struct(product); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Validation failed", validationErrors(err))
	}

	if err := h.service.CreateProduct(middleware.ActorFromCtx(c), &product); err != nil {
		log.Printf("Error creating product: %v", err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusCreated, "Product created", product)
}

// HandleUpdateProduct updates a product the caller owns.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	product.ID = c.Params("id")
	if err := validate.StructExcept(product, "VendorID"); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Validation failed", validationErrors(err))
	}

	if err := h.service.UpdateProduct(middleware.ActorFromCtx(c), &product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Product updated", product)
}

// HandleDeleteProduct deletes a product the caller owns.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(middleware.ActorFromCtx(c), c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Product deleted", nil)
}
