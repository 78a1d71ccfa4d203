package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/upgrade-ev/internal/ev"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeededRNG(1))
	require.NoError(t, err)
	assert.False(t, got, "p=0 should never hit")

	got, err = Draw(1, NewSeededRNG(1))
	require.NoError(t, err)
	assert.True(t, got, "p=1 should always hit")

	for _, p := range []float64{-0.1, 1.1, math.NaN()} {
		_, err := Draw(p, nil)
		assert.ErrorIs(t, err, ErrInvalidProb, "p=%v", p)
	}
}

func TestDrawStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Draw(p, rng)
		require.NoError(t, err)
		if ok {
			hit++
		}
	}
	assert.InDelta(t, p, float64(hit)/n, 0.01)
}

func simTables() ev.Tables {
	return ev.Tables{
		PointsPerLevel:          60,
		PointsPerPackItem:       15,
		PointsPerTierBonus:      120,
		PackSize:                5,
		PackPrice:               30,
		CostCurve:               []float64{30, 60, 100, 180, 240},
		EnhanceBonusProbability: 0.30,
		AcquirePrice:            100,
		BonusOutcomes: []ev.BonusOutcome{
			{Magnitude: 2, Probability: 0.30},
			{Magnitude: 1, Probability: 0.20},
		},
		TierThresholds: []int{10, 25, 40, 55, 70},
	}
}

func simSnapshot() ev.Snapshot {
	return ev.Snapshot{
		Currency:           500,
		AttributeLevels:    map[ev.AttributeID]int{"spark": 4},
		CumulativeProgress: map[ev.Category]int{"Focus": 20},
		BonusSources:       []ev.BonusSource{{ID: "h", Category: "Focus", ActivatedTier: 1}},
	}
}

func TestMonteCarloMatchesExpectation(t *testing.T) {
	e, err := ev.NewEvaluator(simTables())
	require.NoError(t, err)
	s := simSnapshot()

	cases := []struct {
		action ev.Action
		delta  float64
	}{
		{ev.AdvanceAttribute{Attribute: "spark"}, 1.0},
		{ev.AcquireNewAttribute{}, 1.5},
		{ev.PurchasePack{Category: "Focus"}, 1e-9},
	}
	for _, tc := range cases {
		t.Run(tc.action.String(), func(t *testing.T) {
			sc, err := e.Explain(tc.action, s)
			require.NoError(t, err)

			st, err := RunMonteCarlo(e, tc.action, s, 100000, NewSeededRNG(7))
			require.NoError(t, err)
			assert.Equal(t, 100000, st.Trials)
			assert.InDelta(t, sc.Gain(), st.Mean, tc.delta)
		})
	}
}

func TestMonteCarloPackHasNoSpread(t *testing.T) {
	e, err := ev.NewEvaluator(simTables())
	require.NoError(t, err)

	st, err := RunMonteCarlo(e, ev.PurchasePack{Category: "Focus"}, simSnapshot(), 50, NewSeededRNG(1))
	require.NoError(t, err)
	assert.Equal(t, 195.0, st.Mean)
	assert.Zero(t, st.StdDev)
	assert.Equal(t, st.P50, st.P99)
}

func TestMonteCarloRejectsUnevaluable(t *testing.T) {
	e, err := ev.NewEvaluator(simTables())
	require.NoError(t, err)
	s := simSnapshot()
	s.Currency = 10

	_, err = RunMonteCarlo(e, ev.AcquireNewAttribute{}, s, 10, NewSeededRNG(1))
	assert.ErrorIs(t, err, ev.ErrUnaffordable)

	st, err := RunMonteCarlo(e, ev.AcquireNewAttribute{}, s, 0, nil)
	require.NoError(t, err)
	assert.Zero(t, st.Trials)
}

func TestMonteCarloSeededIsRepeatable(t *testing.T) {
	e, err := ev.NewEvaluator(simTables())
	require.NoError(t, err)

	a, err := RunMonteCarlo(e, ev.AcquireNewAttribute{}, simSnapshot(), 1000, NewSeededRNG(99))
	require.NoError(t, err)
	b, err := RunMonteCarlo(e, ev.AcquireNewAttribute{}, simSnapshot(), 1000, NewSeededRNG(99))
	require.NoError(t, err)
	assert.Equal(t, a.Samples, b.Samples)
}

func TestStreamsAreKeyed(t *testing.T) {
	draw := func(r RandomSource) []float64 {
		out := make([]float64, 8)
		for i := range out {
			out[i] = r.Float64()
		}
		return out
	}
	a := draw(NewStream(5, "acquire"))
	assert.Equal(t, a, draw(NewStream(5, "acquire")))
	assert.NotEqual(t, a, draw(NewStream(5, "advance:spark")))
	assert.NotEqual(t, a, draw(NewStream(6, "acquire")))
	assert.Equal(t, draw(NewStream(5, "")), draw(NewSeededRNG(5)))

	for _, v := range draw(DefaultRNG()) {
		assert.True(t, v >= 0 && v < 1, "v=%v", v)
	}
}

func TestCalcStats(t *testing.T) {
	st := calcStats([]float64{60, 120, 60, 180})
	assert.Equal(t, 105.0, st.Mean)
	assert.InDelta(t, 2475.0, st.Var, 1e-9)
	assert.Equal(t, 90.0, st.P50)
	assert.Equal(t, Stats{}, calcStats(nil))
}
