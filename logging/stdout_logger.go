package logging

import (
	"log"
	"time"

	"github.com/kcz17/normcdf/stats"
)

// stdoutLogger logs the output to standard output.
type stdoutLogger struct{}

func NewStdoutLogger() *stdoutLogger {
	return &stdoutLogger{}
}

func (*stdoutLogger) LogEvaluation(mu float64, sigma float64, n int, elapsed time.Duration) {
	log.Printf("evaluated %d values with mu = %g, sigma = %g in %v\n", n, mu, sigma, elapsed)
}

func (*stdoutLogger) LogComparison(mu float64, sigma float64, c *stats.Comparison) {
	log.Printf("reference comparison (mu = %g, sigma = %g, n = %d): max |diff|: %.3e at x = %.6f, mean |diff|: %.3e, median |diff|: %.3e\n",
		mu, sigma, c.N, c.MaxAbsDiff, c.MaxDiffInput, c.MeanAbsDiff, c.MedianAbsDiff)
}

func (*stdoutLogger) LogUniformity(result stats.KSResult) {
	log.Printf("uniformity KS statistic: %.4f, critical value: %.4f, rejected: %t\n", result.Statistic, result.CriticalValue, result.Rejected)
}

func (*stdoutLogger) LogAggregateTimings(p50 float64, p75 float64, p95 float64) {
	log.Printf("p50: %.6f, p75: %.6f, p95: %.6f\n", p50, p75, p95)
}

func (*stdoutLogger) Close() {
	return
}
