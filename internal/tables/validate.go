package tables

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ValidateRaw checks that a merged config is complete and in range.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// points
	nonNeg := func(name string, v *float64) {
		switch {
		case v == nil:
			errs = append(errs, name+" is required")
		case !(*v >= 0) || math.IsInf(*v, 0):
			errs = append(errs, name+" must be finite and >= 0")
		}
	}
	nonNeg("points.per_level", cfg.Points.PerLevel)
	nonNeg("points.per_pack_item", cfg.Points.PerPackItem)
	nonNeg("points.per_tier_bonus", cfg.Points.PerTierBonus)

	// pack
	if cfg.Pack == nil {
		errs = append(errs, "pack is required")
	} else {
		if cfg.Pack.Size == nil || *cfg.Pack.Size <= 0 {
			errs = append(errs, "pack.size must be >= 1")
		}
		if cfg.Pack.Price == nil || !(*cfg.Pack.Price > 0) || math.IsInf(*cfg.Pack.Price, 0) {
			errs = append(errs, "pack.price must be > 0")
		}
		for i, c := range cfg.Pack.Categories {
			if strings.TrimSpace(c) == "" {
				errs = append(errs, fmt.Sprintf("pack.categories[%d] must not be empty", i))
			}
		}
	}

	// attribute
	if cfg.Attribute == nil {
		errs = append(errs, "attribute is required")
	} else {
		a := cfg.Attribute
		if len(a.CostCurve) == 0 {
			errs = append(errs, "attribute.cost_curve must have at least one entry")
		}
		for i, c := range a.CostCurve {
			if math.IsNaN(c) || c <= 0 {
				errs = append(errs, fmt.Sprintf("attribute.cost_curve[%d] must be > 0", i))
			}
			if i > 0 && c < a.CostCurve[i-1] {
				errs = append(errs, fmt.Sprintf("attribute.cost_curve[%d] must not decrease", i))
			}
		}
		if a.EnhanceBonusProbability == nil {
			errs = append(errs, "attribute.enhance_bonus_probability is required")
		} else if p := *a.EnhanceBonusProbability; math.IsNaN(p) || p < 0 || p > 1 {
			errs = append(errs, "attribute.enhance_bonus_probability must be in [0,1]")
		}
		if a.AcquirePrice == nil || !(*a.AcquirePrice > 0) || math.IsInf(*a.AcquirePrice, 0) {
			errs = append(errs, "attribute.acquire_price must be > 0")
		}
		mags := make([]int, 0, len(a.BonusOutcomeProbabilities))
		for m := range a.BonusOutcomeProbabilities {
			mags = append(mags, m)
		}
		sort.Ints(mags)
		for _, m := range mags {
			p := a.BonusOutcomeProbabilities[m]
			if m <= 0 {
				errs = append(errs, fmt.Sprintf("attribute.bonus_outcome_probabilities[%d]: magnitude must be >= 1", m))
			}
			if math.IsNaN(p) || p < 0 || p > 1 {
				errs = append(errs, fmt.Sprintf("attribute.bonus_outcome_probabilities[%d] must be in [0,1]", m))
			}
		}
	}

	// tiers
	if cfg.Tiers != nil {
		for i, v := range cfg.Tiers.Thresholds {
			if v < 0 {
				errs = append(errs, fmt.Sprintf("tiers.thresholds[%d] must be >= 0", i))
			}
			if i > 0 && v < cfg.Tiers.Thresholds[i-1] {
				errs = append(errs, fmt.Sprintf("tiers.thresholds[%d] must not decrease", i))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
