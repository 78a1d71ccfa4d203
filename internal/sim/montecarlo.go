// Package sim samples realized point gains for an action so the closed-form
// expectations in package ev can be checked against observed averages.
package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/xtding233/upgrade-ev/internal/ev"
)

// Stats summarizes sampled point gains.
type Stats struct {
	Trials int
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64

	// raw samples for callers that want histograms
	Samples []float64 `json:"-"`
}

func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	// population variance
	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		Trials:  n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// sampleOne realizes one outcome of the action. Pack purchases carry no
// randomness, so their gain comes precomputed; attribute bonuses are drawn
// independently per outcome.
func sampleOne(t ev.Tables, a ev.Action, packGain float64, rng RandomSource) (float64, error) {
	levels := 1
	switch a.(type) {
	case ev.PurchasePack:
		return packGain, nil

	case ev.AdvanceAttribute:
		hit, err := Draw(t.EnhanceBonusProbability, rng)
		if err != nil {
			return 0, err
		}
		if hit {
			levels++
		}

	case ev.AcquireNewAttribute:
		for _, o := range t.BonusOutcomes {
			hit, err := Draw(o.Probability, rng)
			if err != nil {
				return 0, err
			}
			if hit {
				levels += o.Magnitude
			}
		}

	default:
		return 0, fmt.Errorf("sample %v: %w", a, ev.ErrUnknownAction)
	}
	return float64(levels) * t.PointsPerLevel, nil
}

// RunMonteCarlo samples the point gain of one action trials times. It fails
// with the evaluator's reason when the action is not evaluable for s.
func RunMonteCarlo(e *ev.Evaluator, a ev.Action, s ev.Snapshot, trials int, rng RandomSource) (Stats, error) {
	if trials <= 0 {
		return Stats{}, nil
	}
	sc, err := e.Explain(a, s)
	if err != nil {
		return Stats{}, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	t := e.Tables()
	samples := make([]float64, trials)
	for i := 0; i < trials; i++ {
		v, err := sampleOne(t, a, sc.Gain(), rng)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return calcStats(samples), nil
}
