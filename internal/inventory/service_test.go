package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	products map[int64]Product
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]Product)}
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) FindByName(ctx context.Context, name string) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == name {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID int64) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Product, 0)
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListExpired(ctx context.Context, asOf time.Time, limit int) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Product, 0)
	for _, p := range r.products {
		if !p.ExpirationDate.IsZero() && !p.ExpirationDate.After(asOf) && p.Quantity > 0 {
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memoryRepo) Create(ctx context.Context, p Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.Name == p.Name {
			return 0, ErrDuplicateName
		}
	}
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return p.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, p Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// AdjustQuantity mirrors the conditional single-statement UPDATE: the check
// and the mutation happen under one lock, so a decrease past zero leaves the
// row untouched. The mutation itself goes through the domain guards.
func (r *memoryRepo) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, ErrNotFound
	}
	var err error
	if delta >= 0 {
		err = p.IncreaseQuantity(delta)
	} else {
		err = p.DecreaseQuantity(-delta)
	}
	if err != nil {
		return 0, err
	}
	r.products[id] = p
	return p.Quantity, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturePublisher) Publish(evt Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *capturePublisher) statuses() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Status)
	}
	return out
}

func seedProduct(t *testing.T, svc *Service, name string, quantity int) Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: name, Quantity: quantity, Price: 1.0})
	require.NoError(t, err)
	return p
}

func TestCreateAndGetProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	created := seedProduct(t, svc, "Flour", 100)
	require.NotZero(t, created.ID)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Flour", got.Name)
	require.Equal(t, 100, got.Quantity)

	byName, err := svc.GetProductByName(ctx, "Flour")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)
}

func TestCreateProductRejectsDuplicateName(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	seedProduct(t, svc, "Sugar", 10)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "Sugar", Quantity: 5})
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestDecreaseStockPastZeroLeavesQuantityUnchanged(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()
	p := seedProduct(t, svc, "Butter", 5)

	_, err := svc.DecreaseStock(ctx, p.ID, 6)
	require.ErrorIs(t, err, ErrInsufficientStock)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.Quantity)
}

func TestDecreaseToExactlyZero(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	p := seedProduct(t, svc, "Eggs", 12)

	remaining, err := svc.DecreaseStock(context.Background(), p.ID, 12)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
}

func TestAdjustmentsRejectNegativeAmounts(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	p := seedProduct(t, svc, "Milk", 10)

	_, err := svc.IncreaseStock(context.Background(), p.ID, -1)
	require.ErrorIs(t, err, ErrNegativeAmount)
	_, err = svc.DecreaseStock(context.Background(), p.ID, -1)
	require.ErrorIs(t, err, ErrNegativeAmount)

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 10, got.Quantity)
}

func TestDecreaseThenIncreaseIsDriftFree(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()
	p := seedProduct(t, svc, "Tomato Sauce", 50)

	_, err := svc.DecreaseStock(ctx, p.ID, 8)
	require.NoError(t, err)
	remaining, err := svc.IncreaseStock(ctx, p.ID, 8)
	require.NoError(t, err)
	require.Equal(t, 50, remaining)
}

func TestConcurrentDecreaseOfLastUnit(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()
	p := seedProduct(t, svc, "Basil", 1)

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.DecreaseStock(ctx, p.ID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	require.Equal(t, 1, succeeded)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)
}

func TestAdjustmentsPublishLifecycleEvents(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewService(newMemoryRepo(), pub, nil)
	ctx := context.Background()

	p := seedProduct(t, svc, "Mozzarella", 20)
	_, err := svc.IncreaseStock(ctx, p.ID, 5)
	require.NoError(t, err)
	_, err = svc.DecreaseStock(ctx, p.ID, 3)
	require.NoError(t, err)
	svc.PublishExpired(p.ID)

	require.Equal(t, []string{EventCreated, EventIncreased, EventDecreased, EventExpired}, pub.statuses())
	for _, evt := range pub.events {
		require.NotEmpty(t, evt.EventID)
		require.Equal(t, p.ID, evt.ProductID)
	}
}

func TestRejectedAdjustmentPublishesNothing(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewService(newMemoryRepo(), pub, nil)
	p := seedProduct(t, svc, "Olive Oil", 2)

	_, err := svc.DecreaseStock(context.Background(), p.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, []string{EventCreated}, pub.statuses())
}

func TestUpdateProductRewritesPriceAndExpiration(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()
	p := seedProduct(t, svc, "Chicken Breast", 30)

	expires := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateProduct(ctx, Product{ID: p.ID, Price: 9.99, ExpirationDate: expires})
	require.NoError(t, err)
	require.Equal(t, 9.99, updated.Price)
	require.Equal(t, expires, updated.ExpirationDate)
	require.Equal(t, 30, updated.Quantity)
}

func TestListExpiredHonoursCutoffAndStock(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Old Milk", Quantity: 3, ExpirationDate: past})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Fresh Milk", Quantity: 3, ExpirationDate: future})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Empty Jar", Quantity: 0, ExpirationDate: past})
	require.NoError(t, err)

	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	// expiring exactly at the cutoff counts as expired
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Edge Butter", Quantity: 2, ExpirationDate: cutoff})
	require.NoError(t, err)

	expired, err := svc.ListExpired(ctx, cutoff, 10)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	names := []string{expired[0].Name, expired[1].Name}
	require.ElementsMatch(t, []string{"Old Milk", "Edge Butter"}, names)
}
