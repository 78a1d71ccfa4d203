package sim

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
)

// RandomSource yields uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// osBits is a rand.Source backed by the operating system; a failed read
// falls back to the runtime's own generator.
type osBits struct{}

func (osBits) Uint64() uint64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// DefaultRNG is unseeded and not reproducible.
func DefaultRNG() RandomSource { return rand.New(osBits{}) }

// NewSeededRNG returns a reproducible source. It is the stream with an
// empty key.
func NewSeededRNG(seed uint64) RandomSource { return NewStream(seed, "") }

// NewStream returns a reproducible source for one named action. Streams
// with the same seed and different keys do not share state, so the samples
// drawn for one action do not depend on which other actions were sampled
// before it.
func NewStream(seed uint64, key string) RandomSource {
	h := fnv.New64a()
	h.Write([]byte(key))
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}
