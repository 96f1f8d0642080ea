package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"apotek/internal/models"
	"apotek/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token validation. Tokens
// carry the role and vendor scope the rest of the system trusts.
type AuthService struct {
	userRepo   repositories.UserRepository
	vendorRepo repositories.VendorRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, vendorRepo repositories.VendorRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterRequest is a registration submission. Vendor accounts also carry
// the vendor's display name and category.
type RegisterRequest struct {
	Username   string            `json:"username" validate:"required,min=3,max=100"`
	Email      string            `json:"email" validate:"required,email"`
	Password   string            `json:"password" validate:"required,min=6"`
	Role       models.Role       `json:"role" validate:"required,oneof=CUSTOMER VENDOR"`
	VendorName string            `json:"vendor_name" validate:"required_if=Role VENDOR,omitempty,min=3,max=100"`
	VendorType models.VendorType `json:"vendor_type" validate:"required_if=Role VENDOR,omitempty,oneof=PHARMACY LOCAL_MARKET"`
}

// RegisterUser registers a new account. Vendor registrations also create
// the vendor record in PENDING, awaiting admin approval before it can
// accept orders.
func (s *AuthService) RegisterUser(req RegisterRequest) (*models.User, error) {
	if existingUser, err := s.userRepo.GetByUsername(req.Username); err == nil && existingUser != nil {
		return nil, NewBusinessRuleError(fmt.Sprintf("username '%s' already taken", req.Username))
	}
	if existingUser, err := s.userRepo.GetByEmail(req.Email); err == nil && existingUser != nil {
		return nil, NewBusinessRuleError(fmt.Sprintf("email '%s' already registered", req.Email))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
	}

	if req.Role == models.RoleVendor {
		vendor := &models.Vendor{
			Name:   req.VendorName,
			Type:   req.VendorType,
			Status: models.VendorStatusPending,
		}
		if err := s.vendorRepo.Create(vendor); err != nil {
			return nil, fmt.Errorf("failed to register vendor: %w", err)
		}
		user.VendorID = vendor.ID
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// ErrInvalidCredentials is returned on any login failure so callers cannot
// tell whether the username exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginUser authenticates a user and returns a signed JWT.
func (s *AuthService) LoginUser(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"role":      string(user.Role),
		"vendor_id": user.VendorID,
		"exp":       time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":       time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the actor it
// identifies.
func (s *AuthService) ValidateToken(tokenString string) (*Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	vendorID, _ := claims["vendor_id"].(string)
	if userID == "" || role == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &Actor{
		UserID:   userID,
		Role:     models.Role(role),
		VendorID: vendorID,
	}, nil
}
