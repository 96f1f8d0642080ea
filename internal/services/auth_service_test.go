package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"apotek/internal/models"
	"apotek/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockVendors := new(MockVendorRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockUsers, mockVendors, testJWTSecret)

	req := services.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
		Role:     models.RoleCustomer,
	}

	// Test successful customer registration
	mockUsers.On("GetByUsername", req.Username).Return(nil, nil).Once()
	mockUsers.On("GetByEmail", req.Email).Return(nil, nil).Once()
	mockUsers.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser(req)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Empty(t, user.VendorID)
	// Password must be stored hashed.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockUsers.AssertExpectations(t)

	// Test username already taken
	mockUsers.On("GetByUsername", req.Username).Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser(req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "username 'testuser' already taken")
	mockUsers.AssertExpectations(t)

	// Test email already registered
	mockUsers.On("GetByUsername", req.Username).Return(nil, nil).Once()
	mockUsers.On("GetByEmail", req.Email).Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser(req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockUsers.AssertExpectations(t)
}

func TestAuthService_RegisterUser_VendorCreatesPendingVendor(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockVendors := new(MockVendorRepository)
	authService := services.NewAuthService(mockUsers, mockVendors, "test_jwt_secret")

	req := services.RegisterRequest{
		Username:   "apoteker",
		Email:      "apoteker@example.com",
		Password:   "password123",
		Role:       models.RoleVendor,
		VendorName: "Apotek Sehat",
		VendorType: models.VendorTypePharmacy,
	}

	mockUsers.On("GetByUsername", req.Username).Return(nil, nil).Once()
	mockUsers.On("GetByEmail", req.Email).Return(nil, nil).Once()
	mockVendors.On("Create", mock.AnythingOfType("*models.Vendor")).
		Run(func(args mock.Arguments) {
			vendor := args.Get(0).(*models.Vendor)
			vendor.ID = "vendor-1"
			assert.Equal(t, models.VendorStatusPending, vendor.Status)
			assert.Equal(t, models.VendorTypePharmacy, vendor.Type)
		}).Return(nil).Once()
	mockUsers.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser(req)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleVendor, user.Role)
	assert.Equal(t, "vendor-1", user.VendorID)
	mockUsers.AssertExpectations(t)
	mockVendors.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockVendors := new(MockVendorRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockUsers, mockVendors, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleVendor,
		VendorID: "vendor-1",
	}

	// Test successful login
	mockUsers.On("GetByUsername", user.Username).Return(user, nil).Once()
	token, err := authService.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// The token must carry the role and vendor scope.
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "VENDOR", claims["role"])
	assert.Equal(t, "vendor-1", claims["vendor_id"])
	mockUsers.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockUsers.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser("testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockUsers.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockUsers.On("GetByUsername", "nonexistentuser").Return(nil, fmt.Errorf("user not found")).Once()
	_, err = authService.LoginUser("nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockVendors := new(MockVendorRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockUsers, mockVendors, testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   "user-123",
		"username":  "testuser",
		"role":      "CUSTOMER",
		"vendor_id": "",
		"exp":       jwt.TimeFunc().Add(time.Hour).Unix(), // Expires in 1 hour
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	actor, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", actor.UserID)
	assert.Equal(t, models.RoleCustomer, actor.Role)
	assert.Empty(t, actor.VendorID)

	// Test garbage token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"role":    "CUSTOMER",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(), // Expired 1 hour ago
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test token missing role claims
	bareToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	bareTokenString, _ := bareToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(bareTokenString)
	assert.Error(t, err)
}
