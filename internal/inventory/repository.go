package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists products in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, name, quantity, price, expiration_date, user_id, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var expiry *time.Time
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &expiry, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	if expiry != nil {
		p.ExpirationDate = *expiry
	}
	return p, nil
}

// nullableTime maps the zero time onto SQL NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// FindByID returns the product with the given identity.
func (r *Repository) FindByID(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	return scanProduct(row)
}

// FindByName returns the product matching the ingredient name exactly.
func (r *Repository) FindByName(ctx context.Context, name string) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE name=$1`, name)
	return scanProduct(row)
}

// ListByUser returns all products owned by the user.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE user_id=$1 ORDER BY name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListExpired returns products whose expiration date is on or before asOf.
func (r *Repository) ListExpired(ctx context.Context, asOf time.Time, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE expiration_date <= $1 AND quantity > 0 ORDER BY expiration_date ASC LIMIT $2`, asOf, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Create inserts a new product and returns its identity.
func (r *Repository) Create(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO products (name, quantity, price, expiration_date, user_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NOW(),NOW()) RETURNING id`, p.Name, p.Quantity, p.Price, nullableTime(p.ExpirationDate), p.UserID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateName
		}
		return 0, err
	}
	return id, nil
}

// Update rewrites price and expiration date. Quantity is excluded on purpose;
// stock moves only through AdjustQuantity.
func (r *Repository) Update(ctx context.Context, p Product) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET price=$2, expiration_date=$3, updated_at=NOW() WHERE id=$1`, p.ID, p.Price, nullableTime(p.ExpirationDate))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustQuantity applies a signed stock change in one conditional update so
// concurrent adjustments on the same product serialize at the row and can
// never leave a negative quantity. Returns the resulting quantity.
func (r *Repository) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	var qty int
	err := r.pool.QueryRow(ctx, `UPDATE products SET quantity = quantity + $2, updated_at=NOW()
WHERE id=$1 AND quantity + $2 >= 0 RETURNING quantity`, id, delta).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	// Either the product is gone or the guard rejected the decrease.
	if _, lookupErr := r.FindByID(ctx, id); lookupErr != nil {
		return 0, lookupErr
	}
	return 0, ErrInsufficientStock
}
