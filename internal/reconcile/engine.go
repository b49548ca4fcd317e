package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go5u/foodflow-inventory/internal/inventory"
	"github.com/go5u/foodflow-inventory/internal/menu"
)

// StockPort exposes the inventory operations the engine needs. Each
// adjustment is atomic at the store so the engine holds no cross-ingredient
// lock and issues independent calls per ingredient.
type StockPort interface {
	GetProductByName(ctx context.Context, name string) (inventory.Product, error)
	IncreaseStock(ctx context.Context, id int64, amount int) (int, error)
	DecreaseStock(ctx context.Context, id int64, amount int) (int, error)
}

// Engine reconciles order events against the stock ledger.
type Engine struct {
	menu   menu.Resolver
	stock  StockPort
	logger *slog.Logger
}

// NewEngine constructs the reconciliation engine.
func NewEngine(resolver menu.Resolver, stock StockPort, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{menu: resolver, stock: stock, logger: logger}
}

// Reconcile resolves every order line, aggregates ingredient demand and
// applies the signed adjustment per ingredient. Failures stay contained in
// the smallest unit: an unresolvable dish skips one line, a missing or
// rejected ingredient skips one entry, and the run always completes with a
// full report.
func (e *Engine) Reconcile(ctx context.Context, event OrderEvent, direction Direction) Report {
	report := Report{OrderID: event.OrderID, Direction: direction}

	resolved := make([]ResolvedLine, 0, len(event.Items))
	for _, line := range event.Items {
		dish, ok := e.menu.GetDish(ctx, line.DishID)
		if !ok {
			e.logger.Warn("dish not resolvable, skipping line",
				slog.Int64("order_id", event.OrderID),
				slog.Int64("dish_id", line.DishID))
			report.SkippedLines = append(report.SkippedLines, LineOutcome{DishID: line.DishID, Reason: "dish not found"})
			continue
		}
		resolved = append(resolved, ResolvedLine{Dish: dish, Quantity: line.Quantity})
	}

	demand, names := AggregateDemand(resolved)
	for _, name := range names {
		report.Ingredients = append(report.Ingredients, e.adjustIngredient(ctx, name, demand[name], direction))
	}

	e.logger.Info("order reconciled",
		slog.Int64("order_id", event.OrderID),
		slog.String("direction", direction.String()),
		slog.Int("lines_skipped", len(report.SkippedLines)),
		slog.Int("applied", report.Applied()),
		slog.Int("skipped", report.Skipped()),
		slog.Int("failed", report.Failed()))
	return report
}

func (e *Engine) adjustIngredient(ctx context.Context, name string, required float64, direction Direction) IngredientOutcome {
	outcome := IngredientOutcome{Name: name, Required: required}

	// Stock is tracked in whole units; fractional demand truncates toward zero.
	amount := int(required)
	if amount <= 0 {
		outcome.Status = OutcomeSkipped
		outcome.Reason = "demand below one stock unit"
		return outcome
	}
	outcome.Amount = amount

	product, err := e.stock.GetProductByName(ctx, name)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			e.logger.Warn("ingredient not in inventory, skipping", slog.String("ingredient", name))
			outcome.Status = OutcomeSkipped
			outcome.Reason = "no matching product"
			return outcome
		}
		e.logger.Error("ingredient lookup failed", slog.String("ingredient", name), slog.Any("error", err))
		outcome.Status = OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	var remaining int
	switch direction {
	case Reverse:
		remaining, err = e.stock.IncreaseStock(ctx, product.ID, amount)
	default:
		remaining, err = e.stock.DecreaseStock(ctx, product.ID, amount)
	}
	if err != nil {
		e.logger.Error("stock adjustment rejected",
			slog.String("ingredient", name),
			slog.Int("amount", amount),
			slog.String("direction", direction.String()),
			slog.Any("error", err))
		outcome.Status = OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	e.logger.Info("stock adjusted",
		slog.String("ingredient", name),
		slog.Int("amount", amount),
		slog.String("direction", direction.String()),
		slog.Int("remaining", remaining))
	outcome.Status = OutcomeApplied
	outcome.Remaining = remaining
	return outcome
}
