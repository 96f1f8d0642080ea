package services

import "errors"

// ErrForbidden is returned when the caller's role or ownership does not
// match the operation, before any data is touched.
var ErrForbidden = errors.New("caller is not allowed to perform this action")

// ErrInvalidSignature is returned when a gateway signature does not match
// the expected keyed digest. Verification fails closed: any doubt means
// not verified.
var ErrInvalidSignature = errors.New("gateway signature verification failed")

// BusinessRuleError is a violation of an ordering rule (multi-vendor cart,
// quantity below minimum, price out of range, total mismatch, unapproved
// vendor, unavailable product). The message names the offending entity and
// is safe to show to the user.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

// NewBusinessRuleError creates a BusinessRuleError with the given message.
func NewBusinessRuleError(message string) *BusinessRuleError {
	return &BusinessRuleError{Message: message}
}
