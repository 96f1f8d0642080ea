package models_test

import (
	"testing"

	"apotek/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_TransitionTable(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.OrderStatusDraft, models.OrderStatusPending, true},
		{models.OrderStatusDraft, models.OrderStatusCancelled, true},
		{models.OrderStatusDraft, models.OrderStatusConfirmed, false},
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusCompleted, false},
		{models.OrderStatusPending, models.OrderStatusDraft, false},
		{models.OrderStatusConfirmed, models.OrderStatusCompleted, true},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled, true},
		{models.OrderStatusConfirmed, models.OrderStatusPending, false},
		{models.OrderStatusCompleted, models.OrderStatusCancelled, false},
		{models.OrderStatusCompleted, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be %v", tc.from, tc.to, tc.allowed)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, models.OrderStatusCompleted.Terminal())
	assert.True(t, models.OrderStatusCancelled.Terminal())
	assert.False(t, models.OrderStatusDraft.Terminal())
	assert.False(t, models.OrderStatusPending.Terminal())
	assert.False(t, models.OrderStatusConfirmed.Terminal())
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, models.OrderStatusPending.Valid())
	assert.False(t, models.OrderStatus("SHIPPED").Valid())
	assert.False(t, models.OrderStatus("").Valid())
	// Unknown statuses are not terminal either, they are simply invalid.
	assert.False(t, models.OrderStatus("SHIPPED").Terminal())
}
