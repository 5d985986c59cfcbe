// Package valgen generates the values scenarios drive into a device: closure
// generators for data words and a repeating random boolean pattern.
package valgen

import "math/rand/v2"

// MakeConstGen returns a generator that always yields word.
func MakeConstGen(word uint64) func() uint64 {
	return func() uint64 {
		return word
	}
}

// MakeDecreasingGen yields start first and one less on every call after
// that.
func MakeDecreasingGen(start uint64) func() uint64 {
	next := start
	return func() uint64 {
		v := next
		next--
		return v
	}
}

// Fill sets every element of words from gen.
func Fill(words []uint64, gen func() uint64) {
	for i := range words {
		words[i] = gen()
	}
}

// BoolCycleLen is the length of the pattern a BoolCycle repeats.
const BoolCycleLen = 256

// BoolCycle is an endless sequence of random booleans. It draws
// BoolCycleLen values once from its seed and then repeats them forever, so
// the same seed always gives the same sequence.
type BoolCycle struct {
	seed    uint64
	pattern [BoolCycleLen]bool
	pos     int
}

// NewBoolCycle creates a cycle from a seed.
func NewBoolCycle(seed uint64) *BoolCycle {
	c := &BoolCycle{seed: seed}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range c.pattern {
		c.pattern[i] = r.IntN(2) == 1
	}

	return c
}

// Seed returns the seed the cycle was drawn from.
func (c *BoolCycle) Seed() uint64 {
	return c.seed
}

// Next returns the next value, wrapping around after BoolCycleLen values.
func (c *BoolCycle) Next() bool {
	v := c.pattern[c.pos]
	c.pos = (c.pos + 1) % BoolCycleLen

	return v
}

// Reset restarts the cycle from its first value.
func (c *BoolCycle) Reset() {
	c.pos = 0
}
