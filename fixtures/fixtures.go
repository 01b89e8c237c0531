// Package fixtures provides deterministic pseudo-random generators for the
// property-based tests in ntt and newtondiv. Every generator here
// is seeded: the same label and counter always produce the same limbs, so
// a failing property test reports a reproducible counterexample.
package fixtures

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/lattice/v7/ring"
	"github.com/luxfi/lattice/v7/utils/sampling"
	"github.com/montanaflynn/stats"
	"github.com/zeebo/blake3"
)

const limbBase = 1_000_000_000

// Seed derives a domain-separated 32-byte key from a label and a counter
// by hashing both into a blake3 digest.
func Seed(label string, counter uint64) [32]byte {
	hasher := blake3.New()
	hasher.Write([]byte(label))
	var cb [8]byte
	binary.BigEndian.PutUint64(cb[:], counter)
	hasher.Write(cb[:])
	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// Stream is a deterministic pseudo-random byte stream built on a blake3
// extendable-output function.
type Stream struct {
	digest *blake3.Digest
}

// NewStream returns a Stream reading from the XOF keyed by seed.
func NewStream(seed [32]byte) *Stream {
	hasher := blake3.New()
	hasher.Write(seed[:])
	return &Stream{digest: hasher.Digest()}
}

// Uint32 reads the next 4 bytes of the stream as a little-endian uint32.
func (s *Stream) Uint32() uint32 {
	var buf [4]byte
	s.digest.Read(buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

// Limb returns a value uniformly distributed over [0, limbBase), using
// rejection sampling so the low-order reduction is unbiased.
func (s *Stream) Limb() uint32 {
	const limit = (uint64(1) << 32) / limbBase * limbBase
	for {
		v := uint64(s.Uint32())
		if v < limit {
			return uint32(v % limbBase)
		}
	}
}

// Limbs returns n deterministic most-significant-limb-first base-1e9
// limbs with a nonzero leading limb, suitable as a Multiply/DivModNewton
// operand with exactly n significant limbs.
func (s *Stream) Limbs(n int) []uint32 {
	if n <= 0 {
		return nil
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = s.Limb()
	}
	for out[0] == 0 {
		out[0] = s.Limb()
	}
	return out
}

// latticeLimbs draws n base-1e9 limbs from an independent randomness
// source: a uniform ring-element sampler keyed by the same seed. It exists
// so property tests can cross-check the blake3 stream against a second,
// unrelated generator rather than trusting a single source of "randomness".
func latticeLimbs(seed [32]byte, n int) ([]uint32, error) {
	degree := 1
	for degree < n {
		degree <<= 1
	}
	r, err := ring.NewRing(degree, []uint64{0x1fffffffffe00001})
	if err != nil {
		return nil, fmt.Errorf("fixtures: build ring: %w", err)
	}
	prng, err := sampling.NewKeyedPRNG(seed[:])
	if err != nil {
		return nil, fmt.Errorf("fixtures: keyed prng: %w", err)
	}
	sampler := ring.NewUniformSampler(prng, r)
	poly := sampler.ReadNew()

	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = uint32(poly.Coeffs[0][i] % limbBase)
	}
	if out[0] == 0 {
		out[0] = 1
	}
	return out, nil
}

// CrossCheckUniform compares the blake3-derived Stream and the lattice
// ring sampler over `samples` draws each, returning their sample means and
// standard deviations. Both sources draw from [0, limbBase), whose
// population mean is limbBase/2 and population standard deviation is
// limbBase/sqrt(12); callers use this to assert neither generator is
// visibly biased.
func CrossCheckUniform(label string, samples int) (blake3Mean, blake3StdDev, latticeMean, latticeStdDev float64, err error) {
	seed := Seed(label, 0)
	stream := NewStream(seed)

	blake3Samples := make([]float64, samples)
	for i := range blake3Samples {
		blake3Samples[i] = float64(stream.Limb())
	}
	blake3Mean, err = stats.Mean(blake3Samples)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("fixtures: blake3 mean: %w", err)
	}
	blake3StdDev, err = stats.StandardDeviation(blake3Samples)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("fixtures: blake3 stddev: %w", err)
	}

	latticeSeed := Seed(label, 1)
	latticeRaw, err := latticeLimbs(latticeSeed, samples)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	latticeSamples := make([]float64, len(latticeRaw))
	for i, v := range latticeRaw {
		latticeSamples[i] = float64(v)
	}
	latticeMean, err = stats.Mean(latticeSamples)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("fixtures: lattice mean: %w", err)
	}
	latticeStdDev, err = stats.StandardDeviation(latticeSamples)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("fixtures: lattice stddev: %w", err)
	}
	return blake3Mean, blake3StdDev, latticeMean, latticeStdDev, nil
}
