package workload

import (
	"math"
	"math/rand"
)

// Burst distribution names accepted by NewBurstSampler.
const (
	BurstUniform     = "uniform"
	BurstExponential = "exponential"
)

// BurstSampler generates CPU burst lengths.
type BurstSampler interface {
	// Sample returns a burst in ticks (>= 1).
	Sample(rng *rand.Rand) int64
}

// UniformBurstSampler draws bursts uniformly from [min, max].
type UniformBurstSampler struct {
	min, max int64
}

func (s *UniformBurstSampler) Sample(rng *rand.Rand) int64 {
	if s.min >= s.max {
		return max(s.min, 1)
	}
	return s.min + rng.Int63n(s.max-s.min+1)
}

// ExponentialBurstSampler produces exponentially-distributed bursts clamped to
// [min, max]: many short jobs and a few long ones.
type ExponentialBurstSampler struct {
	mean     float64
	min, max int64
}

func (s *ExponentialBurstSampler) Sample(rng *rand.Rand) int64 {
	val := int64(math.Round(rng.ExpFloat64() * s.mean))
	return max(s.min, min(s.max, val), 1)
}

// NewBurstSampler creates a BurstSampler for dist over [minBurst, maxBurst].
// The exponential mean is the midpoint of the range.
func NewBurstSampler(dist string, minBurst, maxBurst int64) BurstSampler {
	switch dist {
	case BurstExponential:
		return &ExponentialBurstSampler{
			mean: float64(minBurst+maxBurst) / 2,
			min:  minBurst,
			max:  maxBurst,
		}
	default:
		return &UniformBurstSampler{min: minBurst, max: maxBurst}
	}
}
