package inventory

import (
	"errors"
	"time"
)

// Product is an inventory record for one named ingredient.
// Quantity is stock-on-hand in whole units and never goes below zero;
// it is mutated only through IncreaseQuantity/DecreaseQuantity or the
// repository's conditional adjustment.
type Product struct {
	ID             int64
	Name           string
	Quantity       int
	Price          float64
	ExpirationDate time.Time
	UserID         int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IncreaseQuantity adds stock. Negative amounts are rejected.
func (p *Product) IncreaseQuantity(amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	p.Quantity += amount
	return nil
}

// DecreaseQuantity removes stock. The whole adjustment is rejected when it
// would drive the quantity negative.
func (p *Product) DecreaseQuantity(amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount > p.Quantity {
		return ErrInsufficientStock
	}
	p.Quantity -= amount
	return nil
}

var (
	// ErrNotFound indicates a missing product record.
	ErrNotFound = errors.New("inventory: product not found")
	// ErrDuplicateName indicates the product name is already registered for the user.
	ErrDuplicateName = errors.New("inventory: product name already exists")
	// ErrNegativeAmount indicates an adjustment with a negative amount.
	ErrNegativeAmount = errors.New("inventory: amount must be non-negative")
	// ErrInsufficientStock indicates a decrease past zero.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("inventory: invalid input")
)
