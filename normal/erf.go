package normal

import "math"

const (
	sqrt2   = 1.4142135623730951
	sqrt2Pi = 2.5066282746310002

	// rationalCutoff splits the tail kernel between the rational
	// approximation and the continued fraction (5·√2).
	rationalCutoff = 7.071067811865475

	// tailUnderflow is where upperTail is below the smallest subnormal.
	tailUnderflow = 38.5
)

// Coefficients of Hart's double precision approximation to the standard
// normal tail (Hart, Computer Approximations, 1968, algorithm 5666),
// numerator and denominator in descending powers of z.
var (
	tailNum = [...]float64{
		3.52624965998911e-02,
		0.700383064443688,
		6.37396220353165,
		33.912866078383,
		112.079291497871,
		221.213596169931,
		220.206867912376,
	}
	tailDen = [...]float64{
		8.83883476483184e-02,
		1.75566716318264,
		16.064177579207,
		86.7807322029461,
		296.564248779674,
		637.333633378831,
		793.826512519948,
		440.413735824752,
	}
)

// upperTail returns Q(z) = P(Z > z) for a standard normal Z and z >= 0.
func upperTail(z float64) float64 {
	if z >= tailUnderflow {
		return 0
	}
	e := math.Exp(-z * z / 2)
	if z < rationalCutoff {
		num := tailNum[0]
		for _, c := range tailNum[1:] {
			num = num*z + c
		}
		den := tailDen[0]
		for _, c := range tailDen[1:] {
			den = den*z + c
		}
		return e * num / den
	}

	// Continued fraction for the Mills ratio, evaluated from the inside out.
	cf := z + 0.65
	cf = z + 4/cf
	cf = z + 3/cf
	cf = z + 2/cf
	cf = z + 1/cf
	return e / cf / sqrt2Pi
}

// Erfc returns the complementary error function of t using the same tail
// kernel as CDF.
func Erfc(t float64) float64 {
	switch {
	case math.IsNaN(t):
		return math.NaN()
	case t >= 0:
		return 2 * upperTail(t*sqrt2)
	default:
		return 2 - 2*upperTail(-t*sqrt2)
	}
}

// Erf returns the error function of t.
func Erf(t float64) float64 {
	switch {
	case math.IsNaN(t):
		return math.NaN()
	case t >= 0:
		return 1 - Erfc(t)
	default:
		return Erfc(-t) - 1
	}
}
