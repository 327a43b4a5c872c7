// Package normal evaluates the cumulative distribution function of the
// normal (Gaussian) distribution for single values and for buffers.
package normal

import (
	"fmt"
	"math"
)

// saturationZ is the standardized distance beyond which the CDF is reported
// as exactly 0 or 1.
const saturationZ = 10

// Normal holds the parameters of a normal distribution.
type Normal struct {
	Mu    float64 // Mean of the distribution.
	Sigma float64 // Standard deviation, finite and strictly positive.
}

// New returns a validated Normal.
func New(mu, sigma float64) (Normal, error) {
	n := Normal{Mu: mu, Sigma: sigma}
	if err := n.Validate(); err != nil {
		return Normal{}, err
	}
	return n, nil
}

// Validate checks that mu is finite and sigma is finite and positive.
func (n Normal) Validate() error {
	if math.IsNaN(n.Mu) || math.IsInf(n.Mu, 0) {
		return fmt.Errorf("%w: expected finite mu; got mu = %v", ErrInvalidParameter, n.Mu)
	}
	// The negated comparison also rejects NaN.
	if !(n.Sigma > 0) || math.IsInf(n.Sigma, 0) {
		return fmt.Errorf("%w: expected finite sigma > 0; got sigma = %v", ErrInvalidParameter, n.Sigma)
	}
	return nil
}

// CDF returns P(X <= x) for X drawn from n.
func (n Normal) CDF(x float64) (float64, error) {
	if err := n.Validate(); err != nil {
		return 0, err
	}
	if math.IsNaN(x) {
		return 0, fmt.Errorf("%w: expected x not NaN", ErrInvalidParameter)
	}
	return n.cdf(x), nil
}

// cdf assumes n and x have already been validated.
func (n Normal) cdf(x float64) float64 {
	return standardCDF((x - n.Mu) / n.Sigma)
}

// CDF returns the cumulative distribution function of the normal
// distribution with mean mu and standard deviation sigma, evaluated at x.
func CDF(x, mu, sigma float64) (float64, error) {
	return Normal{Mu: mu, Sigma: sigma}.CDF(x)
}

// standardCDF returns Φ(z). Both halves are computed from the upper tail so
// neither side loses precision to cancellation.
func standardCDF(z float64) float64 {
	switch {
	case z > saturationZ:
		return 1
	case z < -saturationZ:
		return 0
	case z < 0:
		return upperTail(-z)
	default:
		return 1 - upperTail(z)
	}
}
