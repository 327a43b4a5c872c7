package stats

import (
	"fmt"
	"math"

	"github.com/kcz17/normcdf/normal"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws reproducible variates from a normal distribution.
type Sampler struct {
	dist       normal.Normal
	norm       distuv.Normal
	uniformSrc rand.Source
	uniform    *rand.Rand
}

// NewSampler seeds a sampler for N(dist.Mu, dist.Sigma). The same seed always
// yields the same sequence.
func NewSampler(dist normal.Normal, seed uint64) (*Sampler, error) {
	if err := dist.Validate(); err != nil {
		return nil, fmt.Errorf("NewSampler() expected valid distribution: %w", err)
	}
	// The uniform stream is kept apart from the normal stream so that
	// truncated draws do not perturb Sample.
	uniformSrc := rand.NewSource(seed ^ 0x9e3779b97f4a7c15)
	return &Sampler{
		dist: dist,
		norm: distuv.Normal{
			Mu:    dist.Mu,
			Sigma: dist.Sigma,
			Src:   rand.NewSource(seed),
		},
		uniformSrc: uniformSrc,
		uniform:    rand.New(uniformSrc),
	}, nil
}

// Sample returns n variates.
func (s *Sampler) Sample(n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = s.norm.Rand()
	}
	return samples
}

// Uniform returns n variates from U(0, 1).
func (s *Sampler) Uniform(n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = s.uniform.Float64()
	}
	return samples
}

// Truncated returns a variate restricted to [lo, hi] using the inverse
// transform method.
// Reference: https://www.r-bloggers.com/2020/08/generating-data-from-a-truncated-distribution/
func (s *Sampler) Truncated(lo, hi float64) (float64, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo >= hi {
		return 0, fmt.Errorf("Sampler.Truncated() expected lo < hi; got lo = %v, hi = %v", lo, hi)
	}
	a, err := s.dist.CDF(lo)
	if err != nil {
		return 0, err
	}
	b, err := s.dist.CDF(hi)
	if err != nil {
		return 0, err
	}
	if a == b {
		return 0, fmt.Errorf("Sampler.Truncated() got empty probability mass in [%v, %v]", lo, hi)
	}

	u := distuv.Uniform{Min: a, Max: b, Src: s.uniformSrc}.Rand()
	x := s.norm.Quantile(u)

	// Quantile may round just outside the bounds.
	return math.Max(lo, math.Min(hi, x)), nil
}
