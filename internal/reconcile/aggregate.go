package reconcile

import "github.com/go5u/foodflow-inventory/internal/menu"

// ResolvedLine pairs a resolved dish composition with the ordered quantity.
type ResolvedLine struct {
	Dish     menu.Dish
	Quantity int
}

// AggregateDemand merges the ingredient requirements of all resolved lines
// into one demand map: demand[name] += quantityPerDish * lineQuantity.
// Accumulation is additive, so any permutation of lines yields the same map.
// The returned name slice preserves first-appearance order for deterministic
// reporting.
func AggregateDemand(lines []ResolvedLine) (map[string]float64, []string) {
	demand := make(map[string]float64)
	names := make([]string, 0)
	for _, line := range lines {
		for _, ingredient := range line.Dish.Ingredients {
			if _, seen := demand[ingredient.Name]; !seen {
				names = append(names, ingredient.Name)
			}
			demand[ingredient.Name] += ingredient.Quantity * float64(line.Quantity)
		}
	}
	return demand, names
}
