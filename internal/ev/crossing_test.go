package ev

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testThresholds = []int{10, 25, 40, 55, 70}

func TestCountCrossings(t *testing.T) {
	cases := []struct {
		name      string
		before    int
		increment int
		tier      int
		want      int
	}{
		{"crosses next tier", 20, 5, 1, 1},
		{"lands exactly on threshold", 20, 5, 0, 1},
		{"one unit short", 19, 5, 1, 0},
		{"skips several tiers", 5, 40, 0, 3},
		{"all tiers at once", 0, 100, 0, 5},
		{"already past every tier", 80, 5, 0, 0},
		{"activated tier skips lower thresholds", 5, 40, 2, 1},
		{"activated tier beyond table", 5, 40, 5, 0},
		{"negative activated tier reads as zero", 5, 10, -3, 1},
		{"zero increment", 20, 0, 0, 0},
		{"negative increment", 30, -10, 0, 0},
		{"negative before", -5, 20, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CountCrossings(tc.before, tc.increment, testThresholds, tc.tier)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCountCrossingsNoDoubleCountWhenTierLags(t *testing.T) {
	// thresholds 10 and 25 were crossed earlier but activatedTier was never advanced
	got := CountCrossings(30, 5, testThresholds, 0)
	assert.Equal(t, 0, got)

	got = CountCrossings(30, 10, testThresholds, 0)
	assert.Equal(t, 1, got, "only 40 is new")
}

func TestCountCrossingsNeverCountsThresholdsAtOrBelowBefore(t *testing.T) {
	for before := 0; before <= 80; before++ {
		for inc := 1; inc <= 50; inc++ {
			fresh := 0
			for _, th := range testThresholds {
				if th > before && th <= before+inc {
					fresh++
				}
			}
			if got := CountCrossings(before, inc, testThresholds, 0); got != fresh {
				t.Fatalf("before=%d inc=%d: got %d crossings, want %d", before, inc, got, fresh)
			}
		}
	}
}

func TestCountCrossingsDoesNotMutate(t *testing.T) {
	ts := []int{10, 25, 40}
	CountCrossings(0, 50, ts, 0)
	assert.Equal(t, []int{10, 25, 40}, ts)
}

func TestCountCrossingsSaturatesNearMaxInt(t *testing.T) {
	ts := []int{10, math.MaxInt - 1, math.MaxInt}
	assert.Equal(t, 2, CountCrossings(math.MaxInt-2, 10, ts, 0))
	assert.Equal(t, 2, CountCrossings(math.MaxInt-2, math.MaxInt, ts, 0))
	assert.Equal(t, 0, CountCrossings(math.MaxInt, 1, ts, 0))
}

func TestCrossingPoints(t *testing.T) {
	assert.Equal(t, 360.0, CrossingPoints(5, 40, testThresholds, 0, 120))
	assert.Equal(t, 0.0, CrossingPoints(5, 4, testThresholds, 0, 120))
	assert.Equal(t, 0.0, CrossingPoints(5, 40, nil, 0, 120))
}
