package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	FindByID(ctx context.Context, id int64) (Product, error)
	FindByName(ctx context.Context, name string) (Product, error)
	ListByUser(ctx context.Context, userID int64) ([]Product, error)
	ListExpired(ctx context.Context, asOf time.Time, limit int) ([]Product, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id int64) error
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)
}

// Service coordinates product registration and stock adjustments.
type Service struct {
	repo      RepositoryPort
	publisher Publisher
	logger    *slog.Logger
}

// NewService builds Service. Publisher may be nil when no downstream exists.
func NewService(repo RepositoryPort, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// CreateProductInput describes a product registration.
type CreateProductInput struct {
	Name           string
	Quantity       int
	Price          float64
	ExpirationDate time.Time
	UserID         int64
}

// CreateProduct registers a new product record.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (Product, error) {
	if input.Name == "" {
		return Product{}, fmt.Errorf("%w: name required", ErrValidation)
	}
	if input.Quantity < 0 {
		return Product{}, fmt.Errorf("%w: quantity must be non-negative", ErrValidation)
	}
	p := Product{
		Name:           input.Name,
		Quantity:       input.Quantity,
		Price:          input.Price,
		ExpirationDate: input.ExpirationDate,
		UserID:         input.UserID,
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	s.publish(p.ID, EventCreated)
	return p, nil
}

// GetProduct returns a product by identity.
func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProductByName returns a product by exact ingredient name.
func (s *Service) GetProductByName(ctx context.Context, name string) (Product, error) {
	if name == "" {
		return Product{}, fmt.Errorf("%w: name required", ErrValidation)
	}
	return s.repo.FindByName(ctx, name)
}

// ListProducts returns all products of one user.
func (s *Service) ListProducts(ctx context.Context, userID int64) ([]Product, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateProduct rewrites price and expiration date of an existing product.
func (s *Service) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	existing, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return Product{}, err
	}
	existing.Price = p.Price
	existing.ExpirationDate = p.ExpirationDate
	if err := s.repo.Update(ctx, existing); err != nil {
		return Product{}, err
	}
	s.publish(existing.ID, EventUpdated)
	return existing, nil
}

// DeleteProduct removes a product record.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// IncreaseStock adds stock to a product. Amounts below zero are rejected;
// increases have no upper bound.
func (s *Service) IncreaseStock(ctx context.Context, id int64, amount int) (int, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	qty, err := s.repo.AdjustQuantity(ctx, id, amount)
	if err != nil {
		return 0, err
	}
	s.publish(id, EventIncreased)
	return qty, nil
}

// DecreaseStock removes stock from a product. The adjustment fails atomically
// when the amount exceeds the current quantity.
func (s *Service) DecreaseStock(ctx context.Context, id int64, amount int) (int, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	qty, err := s.repo.AdjustQuantity(ctx, id, -amount)
	if err != nil {
		return 0, err
	}
	s.publish(id, EventDecreased)
	return qty, nil
}

// ListExpired returns products past their expiration date holding stock.
func (s *Service) ListExpired(ctx context.Context, asOf time.Time, limit int) ([]Product, error) {
	return s.repo.ListExpired(ctx, asOf, limit)
}

// PublishExpired emits an EXPIRED event for a product, used by the expiry sweep.
func (s *Service) PublishExpired(productID int64) {
	s.publish(productID, EventExpired)
}

func (s *Service) publish(productID int64, status string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(Event{
		EventID:   uuid.NewString(),
		ProductID: productID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
}
