package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kcz17/normcdf/normal"
	"github.com/kcz17/normcdf/stats"
	"github.com/kcz17/normcdf/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Values(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Buffer("output", []float64{0, 0.5, 1, 0.25, 0.75})
	assert.Equal(t, "\noutput:\n\n[ 0.00000000  0.50000000  1.00000000  0.25000000\n  0.75000000]\n", buf.String())
}

func TestConsole_EmptyBuffer(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Buffer("output", nil)
	assert.Equal(t, "\noutput:\n\n[]\n", buf.String())
}

func TestConsole_Summaries(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Variates(0, 1, []float64{-1.5})
	c.Comparison(&stats.Comparison{N: 1, MaxAbsDiff: 2e-16, MaxDiffInput: -1.5})
	c.Uniformity(stats.KSResult{Statistic: 0.5, CriticalValue: 0.1, Rejected: true})
	c.Timings(&timing.Aggregation{Count: 3, P50: time.Microsecond, P75: time.Microsecond, P95: 2 * time.Microsecond})

	out := buf.String()
	assert.Contains(t, out, "Normal variates w/ mean 0 and standard deviation 1:")
	assert.Contains(t, out, "max |computed - reference|: 2.000e-16 (at x = -1.50000000)")
	assert.Contains(t, out, "inconsistent with U(0, 1)")
	assert.Contains(t, out, "evaluation time over 3 runs")
}

func TestSavePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdf.png")
	require.NoError(t, SavePlot(path, normal.Normal{Mu: 1, Sigma: 2}, 200))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSavePlot_RejectsTooFewPoints(t *testing.T) {
	assert.Error(t, SavePlot(filepath.Join(t.TempDir(), "cdf.png"), normal.Normal{Mu: 0, Sigma: 1}, 1))
}
