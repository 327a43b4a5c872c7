package logging

import (
	"fmt"
	"time"

	"github.com/kcz17/normcdf/stats"
)

// Drivers selectable through configuration.
const (
	DriverNoop     = "noop"
	DriverStdout   = "stdout"
	DriverInfluxDB = "influxdb"
)

type Logger interface {
	LogEvaluation(mu float64, sigma float64, n int, elapsed time.Duration) // Logs a single batch evaluation.
	LogComparison(mu float64, sigma float64, c *stats.Comparison)          // Logs agreement with the reference CDF.
	LogUniformity(result stats.KSResult)                                   // Logs the probability integral transform check.
	LogAggregateTimings(p50 float64, p75 float64, p95 float64)             // Takes in percentiles in seconds.
	Close()                                                                // Flushes pending writes.
}

// InfluxDBOptions holds the connection settings for the influxdb driver.
type InfluxDBOptions struct {
	Host   string
	Token  string
	Org    string
	Bucket string
}

// New returns the logger for driver.
func New(driver string, influx InfluxDBOptions) (Logger, error) {
	switch driver {
	case DriverNoop:
		return NewNoopLogger(), nil
	case DriverStdout:
		return NewStdoutLogger(), nil
	case DriverInfluxDB:
		return NewInfluxDBLogger(influx.Host, influx.Token, influx.Org, influx.Bucket), nil
	}
	return nil, fmt.Errorf("expected logging driver one of {%s|%s|%s}; got %s", DriverNoop, DriverStdout, DriverInfluxDB, driver)
}

// noopLogger does not perform any logging.
type noopLogger struct{}

func NewNoopLogger() *noopLogger {
	return &noopLogger{}
}

func (*noopLogger) LogEvaluation(float64, float64, int, time.Duration) {
	return
}

func (*noopLogger) LogComparison(float64, float64, *stats.Comparison) {
	return
}

func (*noopLogger) LogUniformity(stats.KSResult) {
	return
}

func (*noopLogger) LogAggregateTimings(float64, float64, float64) {
	return
}

func (*noopLogger) Close() {
	return
}
