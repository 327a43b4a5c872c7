package logging

import (
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/kcz17/normcdf/stats"
)

// influxDBLogger logs the output to an external InfluxDB instance.
type influxDBLogger struct {
	client      influxdb2.Client
	asyncWriter api.WriteAPI
}

func NewInfluxDBLogger(baseURL, authToken, org, bucket string) *influxDBLogger {
	options := influxdb2.DefaultOptions()
	options.WriteOptions().SetBatchSize(1000)
	options.WriteOptions().SetFlushInterval(250)

	client := influxdb2.NewClientWithOptions(baseURL, authToken, options)
	writeAPI := client.WriteAPI(org, bucket)

	// Create a goroutine for reading and logging async write errors.
	errorsCh := writeAPI.Errors()
	go func() {
		for err := range errorsCh {
			log.Printf("influxdb2 logging async write error: %v\n", err)
		}
	}()

	return &influxDBLogger{
		client:      client,
		asyncWriter: writeAPI,
	}
}

func (l *influxDBLogger) LogEvaluation(mu float64, sigma float64, n int, elapsed time.Duration) {
	p := influxdb2.NewPointWithMeasurement("normcdf_evaluation").
		AddField("mu", mu).
		AddField("sigma", sigma).
		AddField("n", n).
		AddField("elapsed", elapsed.Seconds()).
		SetTime(time.Now())
	l.asyncWriter.WritePoint(p)
}

func (l *influxDBLogger) LogComparison(mu float64, sigma float64, c *stats.Comparison) {
	p := influxdb2.NewPointWithMeasurement("normcdf_reference_comparison").
		AddField("mu", mu).
		AddField("sigma", sigma).
		AddField("n", c.N).
		AddField("max_abs_diff", c.MaxAbsDiff).
		AddField("mean_abs_diff", c.MeanAbsDiff).
		AddField("median_abs_diff", c.MedianAbsDiff).
		SetTime(time.Now())
	l.asyncWriter.WritePoint(p)
}

func (l *influxDBLogger) LogUniformity(result stats.KSResult) {
	p := influxdb2.NewPointWithMeasurement("normcdf_uniformity").
		AddField("statistic", result.Statistic).
		AddField("critical_value", result.CriticalValue).
		AddField("rejected", result.Rejected).
		SetTime(time.Now())
	l.asyncWriter.WritePoint(p)
}

func (l *influxDBLogger) LogAggregateTimings(p50 float64, p75 float64, p95 float64) {
	p := influxdb2.NewPointWithMeasurement("normcdf_evaluation_time").
		AddField("p50", p50).
		AddField("p75", p75).
		AddField("p95", p95).
		SetTime(time.Now())
	l.asyncWriter.WritePoint(p)
}

// Close flushes buffered points and releases the client.
func (l *influxDBLogger) Close() {
	l.asyncWriter.Flush()
	l.client.Close()
}
