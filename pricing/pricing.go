// Package pricing converts raw store prices into displayed local prices.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"playstore/models"
)

// ErrInvalidRule is returned for rate rules with non-finite or inverted bounds
var ErrInvalidRule = errors.New("invalid rate rule")

// PickRate returns the rate of the first rule whose bracket contains price.
// Without a match the last rule's rate applies, and 1 for an empty table.
func PickRate(rules []models.RateRule, price float64) float64 {
	for _, r := range rules {
		if price >= r.Min && (r.Max == nil || price < *r.Max) {
			return r.Rate
		}
	}
	if len(rules) == 0 {
		return 1
	}
	return rules[len(rules)-1].Rate
}

// RoundUp rounds value up to the next multiple of step; a non-positive step means the default
func RoundUp(value float64, step int) float64 {
	if step <= 0 {
		step = models.DefaultRoundStep
	}
	s := float64(step)
	return math.Ceil(value/s) * s
}

// ComputeDisplayPrice converts storePrice with the matching rate and rounds it
// up to roundStep. Negative products are clamped to zero.
func ComputeDisplayPrice(storePrice float64, rules []models.RateRule, roundStep int) float64 {
	converted := storePrice * PickRate(rules, storePrice)
	if converted <= 0 || math.IsNaN(converted) {
		return 0
	}
	return RoundUp(converted, roundStep)
}

// ValidateRules checks every rule for finite numbers and ordered bounds
func ValidateRules(rules []models.RateRule) error {
	for i, r := range rules {
		if !finite(r.Min) || !finite(r.Rate) {
			return fmt.Errorf("rule %d: %w", i+1, ErrInvalidRule)
		}
		if r.Max != nil && (!finite(*r.Max) || *r.Max <= r.Min) {
			return fmt.Errorf("rule %d: max must be greater than min: %w", i+1, ErrInvalidRule)
		}
	}
	return nil
}

// Overlap names two rules whose brackets intersect; the earlier one shadows the later
type Overlap struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

func (o Overlap) String() string {
	return fmt.Sprintf("rule %d overlaps rule %d; rule %d wins for shared prices", o.Second, o.First, o.First)
}

// DetectOverlaps lists every pair of intersecting brackets, 1-based
func DetectOverlaps(rules []models.RateRule) []Overlap {
	var out []Overlap
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if intersects(rules[i], rules[j]) {
				out = append(out, Overlap{First: i + 1, Second: j + 1})
			}
		}
	}
	return out
}

func intersects(a, b models.RateRule) bool {
	aMax, bMax := upper(a), upper(b)
	return a.Min < bMax && b.Min < aMax
}

func upper(r models.RateRule) float64 {
	if r.Max == nil {
		return math.Inf(1)
	}
	return *r.Max
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
