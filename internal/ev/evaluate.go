package ev

import (
	"errors"
	"fmt"
	"math"
)

// Reasons an action scores 0.
var (
	ErrUnaffordable     = errors.New("cost exceeds currency")
	ErrMaxLevel         = errors.New("attribute has no further cost entry")
	ErrUnknownAttribute = errors.New("attribute level not in snapshot")
	ErrInvalidLevel     = errors.New("attribute level must be >= 1")
	ErrUnknownAction    = errors.New("unknown action")
	ErrZeroCost         = errors.New("action has no positive cost")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrNonFinite        = errors.New("expected gain is not a finite number")
)

// Score is the breakdown behind one ratio.
type Score struct {
	Action    Action
	Cost      float64
	BaseGain  float64 // deterministic points
	BonusGain float64 // tier rewards or probability-weighted extra levels
	Crossings int     // tier thresholds crossed (packs only)
	Ratio     float64
	Err       error // set by Rank when Ratio is 0
}

// Gain is the total expected point gain.
func (s Score) Gain() float64 { return s.BaseGain + s.BonusGain }

// Evaluator scores actions against fixed tables. It holds no mutable state
// and may be shared between goroutines.
type Evaluator struct {
	t Tables
}

// NewEvaluator validates the tables and keeps a private copy.
func NewEvaluator(t Tables) (*Evaluator, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{t: t.clone()}, nil
}

// Tables returns a copy of the evaluator's tables.
func (e *Evaluator) Tables() Tables { return e.t.clone() }

// Evaluate returns expected points per unit of currency, or 0 when the
// action cannot be taken now.
func (e *Evaluator) Evaluate(a Action, s Snapshot) float64 {
	sc, err := e.Explain(a, s)
	if err != nil {
		return 0
	}
	return sc.Ratio
}

// Explain computes the same ratio as Evaluate along with its parts. A non-nil
// error names why the ratio is 0; the returned Score then carries whatever
// was known (usually the cost).
func (e *Evaluator) Explain(a Action, s Snapshot) (Score, error) {
	sc := Score{Action: a}
	if math.IsNaN(s.Currency) || math.IsInf(s.Currency, 0) || s.Currency < 0 {
		return sc, fmt.Errorf("%w: currency %v", ErrInvalidSnapshot, s.Currency)
	}

	switch act := a.(type) {
	case PurchasePack:
		sc.Cost = e.t.PackPrice
		sc.BaseGain = e.t.PointsPerPackItem * float64(e.t.PackSize)
		sc.Crossings = e.packCrossings(act.Category, s)
		sc.BonusGain = float64(sc.Crossings) * e.t.PointsPerTierBonus

	case AdvanceAttribute:
		level, ok := s.AttributeLevels[act.Attribute]
		if !ok {
			return sc, fmt.Errorf("%w: %q", ErrUnknownAttribute, act.Attribute)
		}
		if level < 1 {
			return sc, fmt.Errorf("%w: %q at %d", ErrInvalidLevel, act.Attribute, level)
		}
		idx := level - 1
		if idx >= len(e.t.CostCurve) || math.IsInf(e.t.CostCurve[idx], 1) {
			return sc, fmt.Errorf("%w: %q at %d", ErrMaxLevel, act.Attribute, level)
		}
		sc.Cost = e.t.CostCurve[idx]
		sc.BaseGain = e.t.PointsPerLevel
		sc.BonusGain = e.t.EnhanceBonusProbability * 1 * e.t.PointsPerLevel

	case AcquireNewAttribute:
		sc.Cost = e.t.AcquirePrice
		sc.BaseGain = e.t.PointsPerLevel
		sc.BonusGain = e.expectedBonusLevels() * e.t.PointsPerLevel

	default:
		return sc, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}

	if !(sc.Cost > 0) {
		return sc, ErrZeroCost
	}
	if sc.Cost > s.Currency {
		return sc, fmt.Errorf("%w: need %v, have %v", ErrUnaffordable, sc.Cost, s.Currency)
	}
	ratio := sc.Gain() / sc.Cost
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 0 {
		return sc, fmt.Errorf("%w: %v / %v", ErrNonFinite, sc.Gain(), sc.Cost)
	}
	sc.Ratio = ratio
	return sc, nil
}

// packCrossings sums tier crossings over every source fed by category.
func (e *Evaluator) packCrossings(c Category, s Snapshot) int {
	before := s.CumulativeProgress[c]
	n := 0
	for _, src := range s.BonusSources {
		if src.Category != c {
			continue
		}
		ts := src.Thresholds
		if len(ts) == 0 {
			ts = e.t.TierThresholds
		}
		n += CountCrossings(before, e.t.PackSize, ts, src.ActivatedTier)
	}
	return n
}

// expectedBonusLevels sums magnitude*probability in ascending magnitude
// order; the fixed order keeps the float result identical across calls.
func (e *Evaluator) expectedBonusLevels() float64 {
	var sum float64
	for _, o := range e.t.BonusOutcomes {
		sum += float64(o.Magnitude) * o.Probability
	}
	return sum
}
