package handlers

import (
	"log"

	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// RegisterRoutes registers the public auth routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister creates a customer or vendor account.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Validation failed", validationErrors(err))
	}

	user, err := h.service.RegisterUser(req)
	if err != nil {
		log.Printf("Error registering user %s: %v", req.Username, err)
		return FailFromError(c, err)
	}
	return Success(c, fiber.StatusCreated, "Registration successful", user)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates and returns a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return Fail(c, fiber.StatusBadRequest, "Validation failed", validationErrors(err))
	}

	token, err := h.service.LoginUser(req.Username, req.Password)
	if err != nil {
		return Fail(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
	}
	return Success(c, fiber.StatusOK, "Login successful", fiber.Map{"token": token})
}
