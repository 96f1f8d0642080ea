package handlers

import (
	"log"

	"apotek/internal/middleware"
	"apotek/internal/models"
	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
)

// VendorHandler handles the admin vendor-approval endpoint.
type VendorHandler struct {
	service *services.VendorService
}

// NewVendorHandler creates a new VendorHandler.
func NewVendorHandler(service *services.VendorService) *VendorHandler {
	return &VendorHandler{
		service: service,
	}
}

// RegisterRoutes registers the vendor routes with the Fiber app.
func (h *VendorHandler) RegisterRoutes(router fiber.Router) {
	vendorRoutes := router.Group("/vendors")
	vendorRoutes.Get("/:id", h.HandleGetVendor)
	vendorRoutes.Patch("/:id/approve", middleware.RequireRole(models.RoleAdmin), h.HandleApproveVendor)
}

// HandleGetVendor retrieves a vendor by ID.
func (h *VendorHandler) HandleGetVendor(c *fiber.Ctx) error {
	vendor, err := h.service.GetVendor(c.Params("id"))
	if err != nil {
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Vendor retrieved", vendor)
}

// HandleApproveVendor approves a pending vendor. Admin only.
func (h *VendorHandler) HandleApproveVendor(c *fiber.Ctx) error {
	vendor, err := h.service.ApproveVendor(middleware.ActorFromCtx(c), c.Params("id"))
	if err != nil {
		log.Printf("Error approving vendor %s: %v", c.Params("id"), err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusOK, "Vendor approved", vendor)
}
