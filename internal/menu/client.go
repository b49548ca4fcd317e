// Package menu is a read-only client for the menu service.
package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Ingredient is one ingredient requirement of a dish.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Dish describes a dish and its ingredient composition.
type Dish struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Resolver maps a dish identity to its composition. Absence is an expected
// outcome, not an error; implementations must fail soft on transport errors.
type Resolver interface {
	GetDish(ctx context.Context, dishID int64) (Dish, bool)
}

// Client resolves dishes over the menu service HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a new client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// GetDish fetches a dish by identity. Not-found, protocol errors and
// transport failures all report absence: a single unresolvable dish must
// never abort processing of the rest of an order.
func (c *Client) GetDish(ctx context.Context, dishID int64) (Dish, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/menu/%d", c.baseURL, dishID), nil)
	if err != nil {
		c.logger.Error("build menu request", slog.Int64("dish_id", dishID), slog.Any("error", err))
		return Dish{}, false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("menu service unreachable", slog.Int64("dish_id", dishID), slog.Any("error", err))
		return Dish{}, false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		c.logger.Warn("dish not found in menu service", slog.Int64("dish_id", dishID))
		return Dish{}, false
	}
	if resp.StatusCode >= 400 {
		c.logger.Warn("menu service error", slog.Int64("dish_id", dishID), slog.Int("status", resp.StatusCode))
		return Dish{}, false
	}
	var dish Dish
	if err := json.NewDecoder(resp.Body).Decode(&dish); err != nil {
		c.logger.Warn("decode dish response", slog.Int64("dish_id", dishID), slog.Any("error", err))
		return Dish{}, false
	}
	return dish, true
}
