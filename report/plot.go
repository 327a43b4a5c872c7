package report

import (
	"fmt"

	"github.com/kcz17/normcdf/normal"
	"github.com/kcz17/normcdf/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// plotSpan is the half-width of the plotted range in standard deviations.
const plotSpan = 4

// SavePlot renders the computed CDF of dist against the reference CDF over
// [mu - 4σ, mu + 4σ] and writes it to path. The image format follows the
// file extension.
func SavePlot(path string, dist normal.Normal, points int) error {
	if points < 2 {
		return fmt.Errorf("SavePlot() expected at least 2 points; got %d", points)
	}

	xs := make([]float64, points)
	lo := dist.Mu - plotSpan*dist.Sigma
	step := 2 * plotSpan * dist.Sigma / float64(points-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}

	computed := make([]float64, points)
	if err := normal.CDFArray(dist.Mu, dist.Sigma, xs, computed); err != nil {
		return fmt.Errorf("SavePlot() could not evaluate CDF: %w", err)
	}
	reference := stats.OracleCDF(dist, xs)

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("SavePlot() could not create plot: %w", err)
	}
	p.Title.Text = fmt.Sprintf("Normal CDF (mu = %g, sigma = %g)", dist.Mu, dist.Sigma)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "P(X <= x)"
	p.Y.Min = 0
	p.Y.Max = 1

	if err := plotutil.AddLines(p,
		"Computed", toPlotterXYs(xs, computed),
		"Reference", toPlotterXYs(xs, reference),
	); err != nil {
		return fmt.Errorf("SavePlot() could not add lines: %w", err)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("SavePlot() could not save to %s: %w", path, err)
	}
	return nil
}

func toPlotterXYs(x []float64, y []float64) plotter.XYs {
	points := make(plotter.XYs, len(x))
	for i := range points {
		points[i].X = x[i]
		points[i].Y = y[i]
	}
	return points
}
