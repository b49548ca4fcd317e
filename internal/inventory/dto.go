package inventory

import "time"

// CreateProductRequest carries product registration payloads.
type CreateProductRequest struct {
	Name           string  `json:"name" validate:"required"`
	Quantity       int     `json:"quantity" validate:"gte=0"`
	Price          float64 `json:"price" validate:"gte=0"`
	ExpirationDate string  `json:"expirationDate" validate:"omitempty,datetime=2006-01-02"`
	UserID         int64   `json:"userId"`
}

// UpdateProductRequest carries product update payloads.
type UpdateProductRequest struct {
	Price          float64 `json:"price" validate:"gte=0"`
	ExpirationDate string  `json:"expirationDate" validate:"omitempty,datetime=2006-01-02"`
}

// DecreaseStockRequest carries the amount to subtract from an ingredient.
// Fractional amounts are accepted on the wire and truncated to whole stock
// units, matching the ordering service contract.
type DecreaseStockRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

// ProductResponse is the JSON shape of a product record.
type ProductResponse struct {
	ProductID      int64   `json:"productId"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	ExpirationDate string  `json:"expirationDate,omitempty"`
	UserID         int64   `json:"userId"`
}

// StockResponse is the JSON shape returned to peer services for one ingredient.
type StockResponse struct {
	ProductID         int64  `json:"productId"`
	IngredientName    string `json:"ingredientName"`
	AvailableQuantity int    `json:"availableQuantity"`
}

func toProductResponse(p Product) ProductResponse {
	resp := ProductResponse{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		UserID:    p.UserID,
	}
	if !p.ExpirationDate.IsZero() {
		resp.ExpirationDate = p.ExpirationDate.Format("2006-01-02")
	}
	return resp
}

func parseExpiration(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}
	}
	return t
}
