// Package reconcile turns order lifecycle events into bounded stock adjustments.
package reconcile

// Status is the closed set of order lifecycle statuses this service reacts to.
type Status int

const (
	// StatusUnknown covers every status value the service does not act on.
	StatusUnknown Status = iota
	// StatusCreated marks a newly placed order.
	StatusCreated
	// StatusCancelled marks a cancelled order.
	StatusCancelled
)

// ParseStatus maps the wire status string onto the closed enum.
func ParseStatus(value string) Status {
	switch value {
	case "CREATED":
		return StatusCreated
	case "CANCELLED":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "CREATED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Direction decides the sign of a reconciliation: Apply consumes stock for a
// created order, Reverse restores it for a cancellation.
type Direction int

const (
	// Apply decreases stock.
	Apply Direction = iota
	// Reverse increases stock.
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "REVERSE"
	}
	return "APPLY"
}

// OrderLine is one ordered dish inside an order event.
type OrderLine struct {
	DishID   int64   `json:"dishId"`
	DishName string  `json:"dishName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderEvent is the inbound order notification. Immutable once received.
type OrderEvent struct {
	OrderID int64       `json:"orderId"`
	Status  string      `json:"status"`
	Items   []OrderLine `json:"items"`
}

// Ingredient outcome statuses.
const (
	OutcomeApplied = "APPLIED"
	OutcomeSkipped = "SKIPPED"
	OutcomeFailed  = "FAILED"
)

// LineOutcome records a line that could not be resolved into a dish.
type LineOutcome struct {
	DishID int64
	Reason string
}

// IngredientOutcome records the result of one ingredient adjustment.
type IngredientOutcome struct {
	Name      string
	Required  float64
	Amount    int
	Status    string
	Remaining int
	Reason    string
}

// Report summarises one reconciliation run. It is always complete: no
// per-line or per-ingredient failure aborts the run or surfaces as an error.
type Report struct {
	OrderID      int64
	Direction    Direction
	SkippedLines []LineOutcome
	Ingredients  []IngredientOutcome
}

// Applied counts successfully adjusted ingredients.
func (r Report) Applied() int { return r.countStatus(OutcomeApplied) }

// Skipped counts ingredients without a matching product or with sub-unit demand.
func (r Report) Skipped() int { return r.countStatus(OutcomeSkipped) }

// Failed counts ingredients whose adjustment was rejected or errored.
func (r Report) Failed() int { return r.countStatus(OutcomeFailed) }

func (r Report) countStatus(status string) int {
	n := 0
	for _, o := range r.Ingredients {
		if o.Status == status {
			n++
		}
	}
	return n
}
