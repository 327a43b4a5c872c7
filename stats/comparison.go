package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/kcz17/normcdf/normal"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Comparison summarises how closely computed CDF values agree with the
// reference implementation.
type Comparison struct {
	N             int
	Oracle        []float64 // Oracle holds the reference CDF per input.
	MaxAbsDiff    float64
	MeanAbsDiff   float64
	MedianAbsDiff float64
	MaxDiffInput  float64 // MaxDiffInput is the input at which MaxAbsDiff occurs.
}

// OracleCDF evaluates the reference CDF of dist over input.
func OracleCDF(dist normal.Normal, input []float64) []float64 {
	ref := distuv.Normal{Mu: dist.Mu, Sigma: dist.Sigma}
	out := make([]float64, len(input))
	for i, x := range input {
		out[i] = ref.CDF(x)
	}
	return out
}

// Compare evaluates the reference CDF over input and summarises the absolute
// differences against computed.
func Compare(dist normal.Normal, input, computed []float64) (*Comparison, error) {
	if len(input) != len(computed) {
		return nil, fmt.Errorf("Compare() expected len(input) == len(computed); got %d and %d", len(input), len(computed))
	}
	if len(input) == 0 {
		return nil, errors.New("Compare() expected non-empty input")
	}

	oracle := OracleCDF(dist, input)
	diffs := make([]float64, len(input))
	maxAt := 0
	for i := range input {
		diffs[i] = math.Abs(computed[i] - oracle[i])
		if diffs[i] > diffs[maxAt] {
			maxAt = i
		}
	}

	mean, err := stats.Mean(diffs)
	if err != nil {
		return nil, fmt.Errorf("unexpected err in Compare() while calculating mean: %w", err)
	}
	median, err := stats.Median(diffs)
	if err != nil {
		return nil, fmt.Errorf("unexpected err in Compare() while calculating median: %w", err)
	}

	return &Comparison{
		N:             len(input),
		Oracle:        oracle,
		MaxAbsDiff:    diffs[maxAt],
		MeanAbsDiff:   mean,
		MedianAbsDiff: median,
		MaxDiffInput:  input[maxAt],
	}, nil
}
