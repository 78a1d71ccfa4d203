// resolve.go
package tables

import (
	"sort"

	"github.com/xtding233/upgrade-ev/internal/ev"
)

// Resolve validates a merged config and converts it to engine tables.
func Resolve(cfg RawConfig) (ev.Tables, error) {
	if err := ValidateRaw(cfg); err != nil {
		return ev.Tables{}, err
	}

	t := ev.Tables{
		PointsPerLevel:          *cfg.Points.PerLevel,
		PointsPerPackItem:       *cfg.Points.PerPackItem,
		PointsPerTierBonus:      *cfg.Points.PerTierBonus,
		PackSize:                *cfg.Pack.Size,
		PackPrice:               *cfg.Pack.Price,
		CostCurve:               append([]float64(nil), cfg.Attribute.CostCurve...),
		EnhanceBonusProbability: *cfg.Attribute.EnhanceBonusProbability,
		AcquirePrice:            *cfg.Attribute.AcquirePrice,
	}
	for _, c := range cfg.Pack.Categories {
		t.PackCategories = append(t.PackCategories, ev.Category(c))
	}
	if cfg.Tiers != nil {
		t.TierThresholds = append([]int(nil), cfg.Tiers.Thresholds...)
	}

	mags := make([]int, 0, len(cfg.Attribute.BonusOutcomeProbabilities))
	for m := range cfg.Attribute.BonusOutcomeProbabilities {
		mags = append(mags, m)
	}
	sort.Ints(mags)
	for _, m := range mags {
		t.BonusOutcomes = append(t.BonusOutcomes, ev.BonusOutcome{
			Magnitude:   m,
			Probability: cfg.Attribute.BonusOutcomeProbabilities[m],
		})
	}
	return t, nil
}

// LoadEvaluator loads, resolves and validates a profile in one step.
func LoadEvaluator(l *Loader, profile string) (*ev.Evaluator, error) {
	raw, err := l.LoadMerged(profile)
	if err != nil {
		return nil, err
	}
	t, err := Resolve(raw)
	if err != nil {
		return nil, err
	}
	return ev.NewEvaluator(t)
}
