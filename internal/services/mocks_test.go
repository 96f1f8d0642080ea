package services_test

import (
	"apotek/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByVendorID(vendorID string) (*models.User, error) {
	args := m.Called(vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockVendorRepository is a mock implementation of repositories.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(vendor *models.Vendor) error {
	args := m.Called(vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) GetByID(id string) (*models.Vendor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) UpdateStatus(id string, status models.VendorStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockPaymentGateway is a mock implementation of services.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(amount float64, currency, receipt string, notes map[string]string) (string, error) {
	args := m.Called(amount, currency, receipt, notes)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) Refund(gatewayPaymentID string, amount float64, reason string) (string, error) {
	args := m.Called(gatewayPaymentID, amount, reason)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	args := m.Called(gatewayOrderID, gatewayPaymentID, signature)
	return args.Bool(0)
}

func (m *MockPaymentGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	args := m.Called(payload, signature)
	return args.Bool(0)
}

// recordedNotification captures a dispatched notification for assertions.
type recordedNotification struct {
	UserID string
	Title  string
	Type   string
	Data   map[string]interface{}
}

// fakeNotifier records notifications instead of publishing them. It never
// fails, mirroring the dispatcher's fire-and-forget contract.
type fakeNotifier struct {
	sent []recordedNotification
}

func (f *fakeNotifier) Notify(userID, title, message, notificationType string, data map[string]interface{}) {
	f.sent = append(f.sent, recordedNotification{
		UserID: userID,
		Title:  title,
		Type:   notificationType,
		Data:   data,
	})
}
