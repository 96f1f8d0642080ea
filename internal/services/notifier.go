package services

import (
	"encoding/json"
	"log"
	"time"

	"apotek/pkg/rabbitmq"
)

// Notification event types.
const (
	NotificationOrderPlaced    = "ORDER_PLACED"
	NotificationOrderStatus    = "ORDER_STATUS"
	NotificationVendorApproved = "VENDOR_APPROVED"
)

// Notifier is the fire-and-forget notification side-channel. Implementations
// must never propagate failures to the caller.
type Notifier interface {
	Notify(userID, title, message, notificationType string, data map[string]interface{})
}

// Dispatcher publishes notification events to the RabbitMQ notification
// queue. At-most-once: a failed publish is logged and dropped.
type Dispatcher struct {
	mq *rabbitmq.Client
}

// NewDispatcher creates a new Dispatcher. The RabbitMQ client may be nil,
// in which case notifications are logged and dropped.
func NewDispatcher(mq *rabbitmq.Client) *Dispatcher {
	return &Dispatcher{
		mq: mq,
	}
}

// Notify publishes a notification event. Any failure is swallowed after
// logging; the primary operation must not be affected.
func (d *Dispatcher) Notify(userID, title, message, notificationType string, data map[string]interface{}) {
	event := map[string]interface{}{
		"user_id": userID,
		"title":   title,
		"message": message,
		"type":    notificationType,
		"data":    data,
		"sent_at": time.Now().Format(time.RFC3339),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Warning: failed to marshal notification for user %s: %v", userID, err)
		return
	}

	if d == nil || d.mq == nil {
		log.Printf("Notification channel unavailable, dropping %s for user %s", notificationType, userID)
		return
	}
	if err := d.mq.Publish(rabbitmq.NotificationQueue, body); err != nil {
		log.Printf("Warning: failed to publish %s notification for user %s: %v", notificationType, userID, err)
	}
}
