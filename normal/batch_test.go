package normal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func sampleInputs(n int, seed uint64) []float64 {
	src := rand.New(rand.NewSource(seed))
	input := make([]float64, n)
	for i := range input {
		input[i] = src.NormFloat64()*4 + 1
	}
	return input
}

func TestCDFArray_MatchesScalar(t *testing.T) {
	for _, n := range []int{0, 1, 10, 1000} {
		input := sampleInputs(n, 516)
		output := make([]float64, n)
		require.NoError(t, CDFArray(1, 4, input, output))
		for i, x := range input {
			want, err := CDF(x, 1, 4)
			require.NoError(t, err)
			assert.Equalf(t, want, output[i], "output[%d] for input %v", i, x)
		}
	}
}

func TestParallelCDFArray_MatchesSequential(t *testing.T) {
	input := sampleInputs(10007, 99)
	sequential := make([]float64, len(input))
	require.NoError(t, CDFArray(1, 4, input, sequential))

	for _, workers := range []int{-1, 0, 1, 3, 16} {
		output := make([]float64, len(input))
		require.NoError(t, ParallelCDFArray(workers, 1, 4, input, output))
		assert.Equalf(t, sequential, output, "workers = %d", workers)
	}
}

func TestCDFArray_Errors(t *testing.T) {
	sentinel := -42.0
	tests := []struct {
		name      string
		mu, sigma float64
		input     []float64
		outputLen int
		wantErr   error
	}{
		{
			name:      "Output shorter than input",
			mu:        0,
			sigma:     1,
			input:     []float64{1, 2, 3},
			outputLen: 2,
			wantErr:   ErrLengthMismatch,
		},
		{
			name:      "Output longer than input",
			mu:        0,
			sigma:     1,
			input:     []float64{1},
			outputLen: 4,
			wantErr:   ErrLengthMismatch,
		},
		{
			name:      "Zero sigma",
			mu:        0,
			sigma:     0,
			input:     []float64{1, 2, 3},
			outputLen: 3,
			wantErr:   ErrInvalidParameter,
		},
		{
			name:      "NaN mu",
			mu:        math.NaN(),
			sigma:     1,
			input:     []float64{1, 2, 3},
			outputLen: 3,
			wantErr:   ErrInvalidParameter,
		},
		{
			name:      "NaN element after valid elements",
			mu:        0,
			sigma:     1,
			input:     []float64{1, 2, math.NaN()},
			outputLen: 3,
			wantErr:   ErrInvalidParameter,
		},
	}
	evaluators := map[string]func(mu, sigma float64, input, output []float64) error{
		"sequential": CDFArray,
		"parallel": func(mu, sigma float64, input, output []float64) error {
			return ParallelCDFArray(4, mu, sigma, input, output)
		},
	}
	for _, tt := range tests {
		for name, evaluate := range evaluators {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				output := make([]float64, tt.outputLen)
				for i := range output {
					output[i] = sentinel
				}
				err := evaluate(tt.mu, tt.sigma, tt.input, output)
				assert.ErrorIs(t, err, tt.wantErr)
				for i, v := range output {
					assert.Equalf(t, sentinel, v, "expected output[%d] untouched after error", i)
				}
			})
		}
	}
}

func TestCDFArray_DoesNotMutateInput(t *testing.T) {
	input := sampleInputs(64, 3)
	original := append([]float64(nil), input...)
	output := make([]float64, len(input))
	require.NoError(t, ParallelCDFArray(8, 1, 4, input, output))
	assert.Equal(t, original, input)
}

func BenchmarkCDFArray(b *testing.B) {
	input := sampleInputs(1<<16, 1)
	output := make([]float64, len(input))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CDFArray(1, 4, input, output)
	}
}

func BenchmarkParallelCDFArray(b *testing.B) {
	input := sampleInputs(1<<16, 1)
	output := make([]float64, len(input))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ParallelCDFArray(0, 1, 4, input, output)
	}
}
