package workload

import (
	"math/rand"
)

// Arrival process names accepted by NewArrivalSampler.
const (
	ArrivalUniform = "uniform"
	ArrivalPoisson = "poisson"
)

// ArrivalSampler generates the gap between consecutive process arrivals.
type ArrivalSampler interface {
	// SampleGap returns the next inter-arrival gap in ticks. Always >= 0;
	// a zero gap means the process arrives on the same tick as the previous one.
	SampleGap(rng *rand.Rand) int64
}

// UniformSampler draws gaps uniformly from [0, max].
type UniformSampler struct {
	max int64
}

func (s *UniformSampler) SampleGap(rng *rand.Rand) int64 {
	if s.max <= 0 {
		return 0
	}
	return rng.Int63n(s.max + 1)
}

// PoissonSampler generates exponentially-distributed gaps, truncated to whole
// ticks, with the given mean.
type PoissonSampler struct {
	mean float64
}

func (s *PoissonSampler) SampleGap(rng *rand.Rand) int64 {
	return int64(rng.ExpFloat64() * s.mean)
}

// NewArrivalSampler creates an ArrivalSampler for process with gaps bounded
// (uniform) or centred (poisson, mean maxGap/2) by maxGap.
func NewArrivalSampler(process string, maxGap int64) ArrivalSampler {
	switch process {
	case ArrivalPoisson:
		return &PoissonSampler{mean: float64(maxGap) / 2}
	default:
		// Validated before reaching here
		return &UniformSampler{max: maxGap}
	}
}
