package ev

import "math"

// CountCrossings returns how many thresholds at index >= activatedTier are
// reached for the first time when progress moves from before to
// before+increment. A threshold already at or below before is never counted,
// even if activatedTier lags behind it. Progress saturates at math.MaxInt.
func CountCrossings(before, increment int, thresholds []int, activatedTier int) int {
	if increment <= 0 || before < 0 {
		return 0
	}
	if activatedTier < 0 {
		activatedTier = 0
	}
	after := math.MaxInt
	if before <= math.MaxInt-increment {
		after = before + increment
	}
	n := 0
	for i := activatedTier; i < len(thresholds); i++ {
		t := thresholds[i]
		if after >= t && before < t {
			n++
		}
	}
	return n
}

// CrossingPoints is CountCrossings scaled by the fixed reward per tier.
func CrossingPoints(before, increment int, thresholds []int, activatedTier int, perTier float64) float64 {
	return float64(CountCrossings(before, increment, thresholds, activatedTier)) * perTier
}
