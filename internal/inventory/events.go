package inventory

import "time"

// Inventory event statuses published downstream.
const (
	EventCreated   = "CREATED"
	EventUpdated   = "UPDATED"
	EventIncreased = "INCREASED"
	EventDecreased = "DECREASED"
	EventExpired   = "EXPIRED"
)

// Event describes a stock-affecting change on one product.
type Event struct {
	EventID   string    `json:"eventId"`
	ProductID int64     `json:"productId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers inventory events downstream, best effort. Implementations
// must not block the caller on delivery; failures are logged, never returned.
type Publisher interface {
	Publish(evt Event)
}
