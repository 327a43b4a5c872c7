// Package report renders demonstration runs for human inspection.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kcz17/normcdf/stats"
	"github.com/kcz17/normcdf/timing"
)

// valuesPerLine is how many values are printed per console line.
const valuesPerLine = 4

// Console prints demonstration steps to w.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Variates(mu, sigma float64, values []float64) {
	fmt.Fprintf(c.w, "\nNormal variates w/ mean %g and standard deviation %g:\n\n", mu, sigma)
	c.values(values)
}

// Buffer prints a titled buffer of values.
func (c *Console) Buffer(title string, values []float64) {
	fmt.Fprintf(c.w, "\n%s:\n\n", title)
	c.values(values)
}

func (c *Console) Comparison(comparison *stats.Comparison) {
	fmt.Fprintf(c.w, "\nmax |computed - reference|: %.3e (at x = %.8f)\n", comparison.MaxAbsDiff, comparison.MaxDiffInput)
	fmt.Fprintf(c.w, "mean |computed - reference|: %.3e\n", comparison.MeanAbsDiff)
	fmt.Fprintf(c.w, "median |computed - reference|: %.3e\n", comparison.MedianAbsDiff)
}

func (c *Console) Uniformity(result stats.KSResult) {
	verdict := "consistent with"
	if result.Rejected {
		verdict = "inconsistent with"
	}
	fmt.Fprintf(c.w, "\nKS statistic %.4f (critical %.4f): CDF values %s U(0, 1)\n", result.Statistic, result.CriticalValue, verdict)
}

func (c *Console) Timings(aggregation *timing.Aggregation) {
	fmt.Fprintf(c.w, "\nevaluation time over %d runs: p50 %v, p75 %v, p95 %v\n", aggregation.Count, aggregation.P50, aggregation.P75, aggregation.P95)
}

func (c *Console) values(values []float64) {
	if len(values) == 0 {
		fmt.Fprintln(c.w, "[]")
		return
	}
	var b strings.Builder
	b.WriteString("[")
	for i, v := range values {
		if i > 0 {
			if i%valuesPerLine == 0 {
				b.WriteString("\n ")
			} else {
				b.WriteString(" ")
			}
		}
		fmt.Fprintf(&b, "%11.8f", v)
	}
	b.WriteString("]")
	fmt.Fprintln(c.w, b.String())
}
