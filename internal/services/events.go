package services

import (
	"context"
	"encoding/json"
	"time"

	"catalog/internal/models"
)

// Routing keys of product change events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers an encoded event under a routing key.
// *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// ProductEvent is the message body of a product change event.
type ProductEvent struct {
	Event      string          `json:"event"`
	ProductID  int64           `json:"product_id"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewProductEvent builds an event stamped with the current UTC time.
func NewProductEvent(event string, id int64, product *models.Product) ProductEvent {
	return ProductEvent{
		Event:      event,
		ProductID:  id,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
}

// Marshal encodes the event as JSON.
func (e ProductEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
