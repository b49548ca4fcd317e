package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/go5u/foodflow-inventory/internal/inventory"
)

type expiredOnlyRepo struct {
	expired []inventory.Product
}

func (r *expiredOnlyRepo) FindByID(ctx context.Context, id int64) (inventory.Product, error) {
	return inventory.Product{}, inventory.ErrNotFound
}

func (r *expiredOnlyRepo) FindByName(ctx context.Context, name string) (inventory.Product, error) {
	return inventory.Product{}, inventory.ErrNotFound
}

func (r *expiredOnlyRepo) ListByUser(ctx context.Context, userID int64) ([]inventory.Product, error) {
	return nil, nil
}

func (r *expiredOnlyRepo) ListExpired(ctx context.Context, asOf time.Time, limit int) ([]inventory.Product, error) {
	out := make([]inventory.Product, 0)
	for _, p := range r.expired {
		if !p.ExpirationDate.After(asOf) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *expiredOnlyRepo) Create(ctx context.Context, p inventory.Product) (int64, error) {
	return 0, nil
}

func (r *expiredOnlyRepo) Update(ctx context.Context, p inventory.Product) error { return nil }

func (r *expiredOnlyRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *expiredOnlyRepo) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	return 0, nil
}

type capturePublisher struct {
	events []inventory.Event
}

func (p *capturePublisher) Publish(evt inventory.Event) {
	p.events = append(p.events, evt)
}

func TestExpirySweepFlagsExpiredProducts(t *testing.T) {
	repo := &expiredOnlyRepo{expired: []inventory.Product{
		{ID: 1, Name: "Old Milk", Quantity: 3, ExpirationDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Fresh Milk", Quantity: 3, ExpirationDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	pub := &capturePublisher{}
	svc := inventory.NewService(repo, pub, nil)
	job := NewExpirySweepJob(svc, nil)

	task, err := NewExpirySweepTask(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), 100)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, pub.events, 1)
	require.Equal(t, int64(1), pub.events[0].ProductID)
	require.Equal(t, inventory.EventExpired, pub.events[0].Status)
}

func TestExpirySweepBadPayloadSkipsRetry(t *testing.T) {
	svc := inventory.NewService(&expiredOnlyRepo{}, nil, nil)
	job := NewExpirySweepJob(svc, nil)

	task := asynq.NewTask(TaskExpirySweep, []byte("not json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}
