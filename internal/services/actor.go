package services

import "apotek/internal/models"

// Actor is the authenticated principal performing an operation. It is built
// from verified token claims by the HTTP layer; services trust it without
// re-checking credentials.
type Actor struct {
	UserID   string
	Role     models.Role
	VendorID string
}
