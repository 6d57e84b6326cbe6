// Package lfsr implements the 32-bit Galois linear-feedback shift register
// that drives every pseudo-random choice in the maze.
//
// All arithmetic is on uint32 and wraps on overflow, so a seed derived on one
// platform is bit-identical on every other. The register never leaves zero:
// Next(0) == 0, and callers mixing in coordinates use [Mix], which adds a
// nonzero term.
package lfsr

// Taps is the feedback polynomial XORed in when a one bit is shifted out.
const Taps uint32 = 0x80200003

// Next advances the register by one step.
func Next(x uint32) uint32 {
	lsb := x & 1
	x >>= 1
	if lsb != 0 {
		x ^= Taps
	}
	return x
}

// Advance applies Next n times.
func Advance(x uint32, n int) uint32 {
	for i := 0; i < n; i++ {
		x = Next(x)
	}
	return x
}

// Mix folds a value into a seed: Next(seed + (seed+1)*v).
func Mix(seed, v uint32) uint32 {
	return Next(seed + (seed+1)*v)
}

// Choose returns list[seed mod len(list)]. ok is false for an empty list.
func Choose[T any](list []T, seed uint32) (v T, ok bool) {
	if len(list) == 0 {
		return v, false
	}
	return list[seed%uint32(len(list))], true
}

// Source is a stateful chooser: every pick advances the seed by one step.
type Source struct {
	seed uint32
}

// NewSource returns a Source starting at seed.
func NewSource(seed uint32) *Source { return &Source{seed: seed} }

// Seed returns the current register value.
func (s *Source) Seed() uint32 { return s.seed }

// Uint32 returns the current value and advances.
func (s *Source) Uint32() uint32 {
	v := s.seed
	s.seed = Next(s.seed)
	return v
}

// Intn returns the current value mod n and advances. n must be positive.
func (s *Source) Intn(n int) int {
	return int(s.Uint32() % uint32(n))
}

// Pick chooses from list with the current value and advances. The register
// advances even when the list is empty.
func Pick[T any](s *Source, list []T) (T, bool) {
	return Choose(list, s.Uint32())
}
