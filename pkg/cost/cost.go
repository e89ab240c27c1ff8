package cost

import (
	"sort"
	"strings"
	"sync"
)

// PricingModel defines the cost per 1M tokens (standard industry pricing unit)
type PricingModel struct {
	InputPrice  float64 // Cost per 1M input tokens
	OutputPrice float64 // Cost per 1M output tokens
}

// CostCalculator estimates the USD cost of completions.
type CostCalculator struct {
	mu     sync.RWMutex
	prices map[string]PricingModel
}

// NewCostCalculator creates a new calculator with default pricing
func NewCostCalculator() *CostCalculator {
	c := &CostCalculator{
		prices: make(map[string]PricingModel),
	}
	c.loadDefaults()
	return c
}

// SetPrice registers or replaces pricing for a model id (case-insensitive).
func (c *CostCalculator) SetPrice(model string, price PricingModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[strings.ToLower(model)] = price
}

// CalculateCost returns the estimated cost in USD. Unknown models are matched against
// the longest known model id that prefixes them (dated snapshots such as
// "claude-sonnet-4-20250514" resolve to "claude-sonnet-4"); with no match the cost is zero.
func (c *CostCalculator) CalculateCost(model string, promptTokens, completionTokens int) float64 {
	price := c.lookup(strings.ToLower(model))

	inputCost := (float64(promptTokens) / 1_000_000.0) * price.InputPrice
	outputCost := (float64(completionTokens) / 1_000_000.0) * price.OutputPrice

	return inputCost + outputCost
}

func (c *CostCalculator) lookup(model string) PricingModel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if price, ok := c.prices[model]; ok {
		return price
	}

	keys := make([]string, 0, len(c.prices))
	for k := range c.prices {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		if strings.HasPrefix(model, k) {
			return c.prices[k]
		}
	}
	return PricingModel{}
}

// loadDefaults loads list pricing for the providers the completion layer supports
func (c *CostCalculator) loadDefaults() {
	// Anthropic
	c.prices["claude-opus-4"] = PricingModel{InputPrice: 15.00, OutputPrice: 75.00}
	c.prices["claude-sonnet-4"] = PricingModel{InputPrice: 3.00, OutputPrice: 15.00}
	c.prices["claude-3-7-sonnet"] = PricingModel{InputPrice: 3.00, OutputPrice: 15.00}
	c.prices["claude-3-5-sonnet"] = PricingModel{InputPrice: 3.00, OutputPrice: 15.00}
	c.prices["claude-3-5-haiku"] = PricingModel{InputPrice: 0.80, OutputPrice: 4.00}
	c.prices["claude-3-opus"] = PricingModel{InputPrice: 15.00, OutputPrice: 75.00}
	c.prices["claude-3-haiku"] = PricingModel{InputPrice: 0.25, OutputPrice: 1.25}

	// OpenAI
	c.prices["gpt-4o"] = PricingModel{InputPrice: 2.50, OutputPrice: 10.00}
	c.prices["gpt-4o-mini"] = PricingModel{InputPrice: 0.15, OutputPrice: 0.60}
	c.prices["gpt-4-turbo"] = PricingModel{InputPrice: 10.00, OutputPrice: 30.00}
	c.prices["gpt-4.1"] = PricingModel{InputPrice: 2.00, OutputPrice: 8.00}
	c.prices["gpt-4.1-mini"] = PricingModel{InputPrice: 0.40, OutputPrice: 1.60}
	c.prices["gpt-3.5-turbo"] = PricingModel{InputPrice: 0.50, OutputPrice: 1.50}
}
