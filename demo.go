package main

import (
	"fmt"
	"io"
	"time"

	"github.com/kcz17/normcdf/config"
	"github.com/kcz17/normcdf/logging"
	"github.com/kcz17/normcdf/normal"
	"github.com/kcz17/normcdf/report"
	"github.com/kcz17/normcdf/stats"
	"github.com/kcz17/normcdf/timing"
)

// plotPoints is the resolution of the optional CDF plot.
const plotPoints = 400

// runDemo draws seeded variates, evaluates their CDF and compares the result
// against the reference implementation, printing each step to w.
func runDemo(conf *config.Config, logger logging.Logger, w io.Writer) error {
	dist, err := normal.New(conf.Distribution.Mu, conf.Distribution.Sigma)
	if err != nil {
		return fmt.Errorf("runDemo() got invalid distribution: %w", err)
	}
	percentile, err := stats.ParsePercentile(conf.Demo.KSPercentile)
	if err != nil {
		return fmt.Errorf("runDemo() got invalid KS percentile: %w", err)
	}
	sampler, err := stats.NewSampler(dist, conf.Demo.Seed)
	if err != nil {
		return fmt.Errorf("runDemo() could not create sampler: %w", err)
	}

	console := report.NewConsole(w)
	input := sampler.Sample(conf.Demo.Samples)
	output := make([]float64, len(input))

	console.Variates(dist.Mu, dist.Sigma, input)
	console.Buffer("output before evaluation", output)

	evaluate := func() error {
		return normal.CDFArray(dist.Mu, dist.Sigma, input, output)
	}
	if conf.Demo.Workers != 0 {
		evaluate = func() error {
			return normal.ParallelCDFArray(conf.Demo.Workers, dist.Mu, dist.Sigma, input, output)
		}
	}

	collector := timing.NewArrayCollector()
	for i := 0; i < conf.Demo.Repetitions; i++ {
		startTime := time.Now()
		if err := evaluate(); err != nil {
			return fmt.Errorf("runDemo() could not evaluate CDF: %w", err)
		}
		elapsed := time.Now().Sub(startTime)
		collector.Add(elapsed)
		logger.LogEvaluation(dist.Mu, dist.Sigma, len(input), elapsed)
	}
	console.Buffer("output after evaluation", output)

	comparison, err := stats.Compare(dist, input, output)
	if err != nil {
		return fmt.Errorf("runDemo() could not compare against reference: %w", err)
	}
	console.Buffer("reference CDFs", comparison.Oracle)
	console.Comparison(comparison)
	logger.LogComparison(dist.Mu, dist.Sigma, comparison)

	uniformity := stats.UniformityRejected(output, sampler.Uniform(len(output)), percentile)
	console.Uniformity(uniformity)
	logger.LogUniformity(uniformity)

	aggregation := collector.Aggregate()
	console.Timings(aggregation)
	logger.LogAggregateTimings(timing.Seconds(aggregation.P50), timing.Seconds(aggregation.P75), timing.Seconds(aggregation.P95))

	if conf.Demo.PlotPath != "" {
		if err := report.SavePlot(conf.Demo.PlotPath, dist, plotPoints); err != nil {
			return fmt.Errorf("runDemo() could not save plot: %w", err)
		}
		fmt.Fprintf(w, "\nplot written to %s\n", conf.Demo.PlotPath)
	}

	return nil
}
