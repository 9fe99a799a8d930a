package kafka

import "time"

const TopicOrderPlaced = `storefront.order-placed`

// OrderPlacedEvent is published after an order document has been created
// in the CMS, so downstream consumers (fulfilment, mail) can react.
type OrderPlacedEvent struct {
	OrderID   string    `json:"order_id"`
	Email     string    `json:"email"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}
