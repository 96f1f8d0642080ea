package handlers

import (
	"errors"

	"apotek/internal/models"
	"apotek/internal/repositories"
	"apotek/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validate is the shared request validator.
var validate = validator.New()

// Meta carries pagination info on list responses.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta builds pagination metadata. Limit is clamped to at least 1 so a
// caller passing an unnormalized value cannot divide by zero.
func NewMeta(page, limit int, total int64) *Meta {
	if limit < 1 {
		limit = 1
	}
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

type successEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Success writes the success envelope.
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(successEnvelope{Success: true, Message: message, Data: data})
}

// SuccessWithMeta writes the success envelope with pagination metadata.
func SuccessWithMeta(c *fiber.Ctx, status int, message string, data interface{}, meta *Meta) error {
	return c.Status(status).JSON(successEnvelope{Success: true, Message: message, Data: data, Meta: meta})
}

// Fail writes the error envelope.
func Fail(c *fiber.Ctx, status int, message string, errs interface{}) error {
	return c.Status(status).JSON(errorEnvelope{Success: false, Message: message, Errors: errs})
}

// FailFromError maps a service error onto the envelope using the error
// taxonomy: authorization, business rule, invalid transition, not found,
// everything else a 500.
func FailFromError(c *fiber.Ctx, err error) error {
	var ruleErr *services.BusinessRuleError
	switch {
	case errors.Is(err, services.ErrForbidden):
		return Fail(c, fiber.StatusForbidden, "You are not allowed to perform this action", nil)
	case errors.Is(err, services.ErrInvalidSignature):
		return Fail(c, fiber.StatusBadRequest, "Payment signature verification failed", nil)
	case errors.As(err, &ruleErr):
		return Fail(c, fiber.StatusUnprocessableEntity, ruleErr.Message, nil)
	case errors.Is(err, models.ErrInvalidStatusTransition):
		return Fail(c, fiber.StatusConflict, "Order status transition is not allowed", nil)
	case errors.Is(err, repositories.ErrNotFound):
		return Fail(c, fiber.StatusNotFound, "Resource not found", nil)
	default:
		return Fail(c, fiber.StatusInternalServerError, "Something went wrong", nil)
	}
}

// validationErrors flattens validator output into field-level messages.
func validationErrors(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fe.Field()+" failed on "+fe.Tag())
	}
	return messages
}
