package sim

import (
	"errors"
	"math"
)

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

// Draw reports whether an event with probability p happens.
// p == 0 never hits and p == 1 always hits without consuming rng.
func Draw(p float64, rng RandomSource) (bool, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return false, ErrInvalidProb
	}
	if p == 0 {
		return false, nil
	}
	if p == 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}
