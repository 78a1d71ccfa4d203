package ev

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// BonusOutcome is one independent random bonus on a new acquisition:
// with Probability the attribute lands Magnitude extra levels.
type BonusOutcome struct {
	Magnitude   int
	Probability float64
}

// Tables holds the constant game data the evaluator consumes.
// An Evaluator keeps its own copy, so callers may reuse or mutate theirs.
type Tables struct {
	PointsPerLevel     float64
	PointsPerPackItem  float64
	PointsPerTierBonus float64

	PackSize       int        // items per pack; also the progress increment
	PackPrice      float64    // currency per pack
	PackCategories []Category // categories sold as packs, used by Candidates

	// CostCurve[level-1] is the price to advance from level to level+1.
	// A +Inf entry marks a level that cannot be advanced.
	CostCurve               []float64
	EnhanceBonusProbability float64 // chance of one extra level on advance

	AcquirePrice float64

	// Outcomes are independent; their expectations are summed.
	BonusOutcomes []BonusOutcome

	// TierThresholds apply to every bonus source without its own thresholds.
	TierThresholds []int
}

// MaxLevel is the first level with no finite advance cost.
func (t Tables) MaxLevel() int {
	for i, c := range t.CostCurve {
		if math.IsInf(c, 1) {
			return i + 1
		}
	}
	return len(t.CostCurve) + 1
}

// Validate reports every inconsistency in the tables as one error.
func (t Tables) Validate() error {
	var errs []string

	for _, w := range []struct {
		name string
		v    float64
	}{
		{"points per level", t.PointsPerLevel},
		{"points per pack item", t.PointsPerPackItem},
		{"points per tier bonus", t.PointsPerTierBonus},
	} {
		if !finiteNonNeg(w.v) {
			errs = append(errs, w.name+" must be finite and >= 0")
		}
	}
	if t.PackSize <= 0 {
		errs = append(errs, "pack size must be >= 1")
	}
	if !finitePositive(t.PackPrice) {
		errs = append(errs, "pack price must be > 0")
	}
	if !finitePositive(t.AcquirePrice) {
		errs = append(errs, "acquire price must be > 0")
	}
	if !validProb(t.EnhanceBonusProbability) {
		errs = append(errs, "enhance bonus probability must be in [0,1]")
	}

	for i, c := range t.CostCurve {
		if math.IsNaN(c) || c <= 0 {
			errs = append(errs, fmt.Sprintf("cost curve[%d] must be > 0", i))
		}
		if i > 0 && c < t.CostCurve[i-1] {
			errs = append(errs, fmt.Sprintf("cost curve[%d] decreases", i))
		}
	}
	if err := validateThresholds(t.TierThresholds); err != nil {
		errs = append(errs, "tier "+err.Error())
	}

	seen := make(map[int]bool, len(t.BonusOutcomes))
	for i, o := range t.BonusOutcomes {
		if o.Magnitude <= 0 {
			errs = append(errs, fmt.Sprintf("bonus outcome[%d] magnitude must be >= 1", i))
		}
		if seen[o.Magnitude] {
			errs = append(errs, fmt.Sprintf("bonus outcome[%d] duplicates magnitude %d", i, o.Magnitude))
		}
		seen[o.Magnitude] = true
		if !validProb(o.Probability) {
			errs = append(errs, fmt.Sprintf("bonus outcome[%d] probability must be in [0,1]", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("tables validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// clone deep-copies slices and fixes outcome order by magnitude.
func (t Tables) clone() Tables {
	out := t
	out.PackCategories = append([]Category(nil), t.PackCategories...)
	out.CostCurve = append([]float64(nil), t.CostCurve...)
	out.TierThresholds = append([]int(nil), t.TierThresholds...)
	out.BonusOutcomes = append([]BonusOutcome(nil), t.BonusOutcomes...)
	sort.Slice(out.BonusOutcomes, func(i, j int) bool {
		return out.BonusOutcomes[i].Magnitude < out.BonusOutcomes[j].Magnitude
	})
	return out
}

func validateThresholds(ts []int) error {
	for i, v := range ts {
		if v < 0 {
			return fmt.Errorf("thresholds[%d] must be >= 0", i)
		}
		if i > 0 && v < ts[i-1] {
			return fmt.Errorf("thresholds[%d] decreases", i)
		}
	}
	return nil
}

func validProb(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

func finiteNonNeg(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
