package normal

import (
	"fmt"
	"math"

	"github.com/kcz17/normcdf/internal/parallel"
)

// CDFArray writes the CDF of every element of input into the element of
// output at the same index. The buffers must have equal length. Inputs are
// validated before the first write, so on error output is left untouched.
func CDFArray(mu, sigma float64, input, output []float64) error {
	n, err := validateBatch(mu, sigma, input, output)
	if err != nil {
		return err
	}
	for i, x := range input {
		output[i] = n.cdf(x)
	}
	return nil
}

// ParallelCDFArray behaves like CDFArray but partitions the buffers across up
// to workers goroutines. workers <= 0 uses GOMAXPROCS. Results are identical
// to CDFArray.
func ParallelCDFArray(workers int, mu, sigma float64, input, output []float64) error {
	n, err := validateBatch(mu, sigma, input, output)
	if err != nil {
		return err
	}
	parallel.For(len(input), workers, func(start, end int) {
		for i := start; i < end; i++ {
			output[i] = n.cdf(input[i])
		}
	})
	return nil
}

func validateBatch(mu, sigma float64, input, output []float64) (Normal, error) {
	if len(input) != len(output) {
		return Normal{}, fmt.Errorf("%w: expected len(output) == len(input); got len(input) = %d, len(output) = %d", ErrLengthMismatch, len(input), len(output))
	}
	n, err := New(mu, sigma)
	if err != nil {
		return Normal{}, err
	}
	for i, x := range input {
		if math.IsNaN(x) {
			return Normal{}, fmt.Errorf("%w: expected input[%d] not NaN", ErrInvalidParameter, i)
		}
	}
	return n, nil
}
