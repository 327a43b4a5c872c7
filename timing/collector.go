// Package timing collects the wall-clock durations of batch evaluations.
package timing

import "time"

type Aggregation struct {
	Count int           // Count is the number of durations aggregated.
	P50   time.Duration // P50 is the 50th percentile duration.
	P75   time.Duration // P75 is the 75th percentile duration.
	P95   time.Duration // P95 is the 95th percentile duration.
}

type Collector interface {
	Add(d time.Duration)     // Add records a new evaluation duration.
	Len() int                // Len gets the number of durations collected.
	Aggregate() *Aggregation // Aggregate calculates percentiles over the collected durations.
	Reset()                  // Reset resets the state of the collector for reuse.
}

// Seconds converts a duration to fractional seconds, the unit loggers and
// the API report in.
func Seconds(d time.Duration) float64 {
	return float64(d) / float64(time.Second)
}
