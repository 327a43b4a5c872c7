package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

type Percentile = int

const (
	P90 Percentile = iota
	P95
	P97d5
	P99
	P99d5
	P99d9
)

// coefficients are KS-coefficients.
// Retrieved from: https://www.webdepot.umontreal.ca/Usagers/angers/MonDepotPublic/STT3500H10/Critical_KS.pdf
var coefficients = map[Percentile]float64{
	P90:   1.22,
	P95:   1.36,
	P97d5: 1.48,
	P99:   1.63,
	P99d5: 1.73,
	P99d9: 1.95,
}

// ParsePercentile maps the configuration names p90, p95, p97.5, p99, p99.5
// and p99.9 to a Percentile.
func ParsePercentile(s string) (Percentile, error) {
	switch s {
	case "p90":
		return P90, nil
	case "p95":
		return P95, nil
	case "p97.5":
		return P97d5, nil
	case "p99":
		return P99, nil
	case "p99.5":
		return P99d5, nil
	case "p99.9":
		return P99d9, nil
	}
	return 0, fmt.Errorf("ParsePercentile() expected one of {p90|p95|p97.5|p99|p99.5|p99.9}; got %s", s)
}

// KSResult is the outcome of a two-sample Kolmogorov-Smirnov test.
type KSResult struct {
	Statistic     float64
	CriticalValue float64
	Rejected      bool
}

// KolmogorovSmirnovTest performs a two-tailed KS-test. Rejected is true if
// the two samples are judged to come from different distributions.
func KolmogorovSmirnovTest(control []float64, candidate []float64, percentile Percentile) KSResult {
	// Calculate the KS-coefficient based on the percentile.
	coeff, ok := coefficients[percentile]
	if !ok {
		panic(fmt.Sprintf("unexpected percentile %v, see Percentile type", percentile))
	}

	// Calculate the critical value.
	criticalValue := coeff * math.Sqrt(float64(len(control)+len(candidate))/float64(len(control)*len(candidate)))

	// Copy the input slices so we can sort them.
	sortedControl := make([]float64, len(control))
	copy(sortedControl, control)
	sort.Float64s(sortedControl)

	sortedCandidate := make([]float64, len(candidate))
	copy(sortedCandidate, candidate)
	sort.Float64s(sortedCandidate)

	// Pass in nil weights as gonum's stat package allows inputs to be
	// weighted, which is not relevant to our situation.
	testStatistic := stat.KolmogorovSmirnov(sortedControl, nil, sortedCandidate, nil)

	return KSResult{
		Statistic:     testStatistic,
		CriticalValue: criticalValue,
		Rejected:      testStatistic > criticalValue,
	}
}

// UniformityRejected tests whether CDF values computed over variates of the
// same distribution are uniform on [0, 1] by comparing them against uniform
// reference samples. A correct CDF should not be rejected.
func UniformityRejected(cdfValues []float64, uniform []float64, percentile Percentile) KSResult {
	return KolmogorovSmirnovTest(uniform, cdfValues, percentile)
}
