package timing

import (
	"fmt"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// arrayCollector keeps every duration. As storage and computation are both
// O(n), it is meant for bounded runs such as the demonstration.
type arrayCollector struct {
	durationsSeconds    []float64
	durationsSecondsMux *sync.Mutex
}

func NewArrayCollector() *arrayCollector {
	return &arrayCollector{
		durationsSeconds:    []float64{},
		durationsSecondsMux: &sync.Mutex{},
	}
}

func (c *arrayCollector) Add(d time.Duration) {
	c.durationsSecondsMux.Lock()
	c.durationsSeconds = append(c.durationsSeconds, Seconds(d))
	c.durationsSecondsMux.Unlock()
}

func (c *arrayCollector) Len() int {
	c.durationsSecondsMux.Lock()
	defer c.durationsSecondsMux.Unlock()
	return len(c.durationsSeconds)
}

func (c *arrayCollector) Aggregate() *Aggregation {
	// The stats package creates a copy of the array, so we must hold onto the
	// mutex while calculations are being made.
	c.durationsSecondsMux.Lock()
	defer c.durationsSecondsMux.Unlock()

	// The stats package requires input arrays to be non-empty, and cannot
	// interpolate upper percentiles from a single value.
	switch len(c.durationsSeconds) {
	case 0:
		return &Aggregation{}
	case 1:
		d := toDuration(c.durationsSeconds[0])
		return &Aggregation{Count: 1, P50: d, P75: d, P95: d}
	}

	p50, err := stats.Median(c.durationsSeconds)
	if err != nil {
		panic(fmt.Errorf("unexpected err in arrayCollector.Aggregate() while calculating p50: %w", err))
	}
	p75, err := stats.Percentile(c.durationsSeconds, 75)
	if err != nil {
		panic(fmt.Errorf("unexpected err in arrayCollector.Aggregate() while calculating p75: %w", err))
	}
	p95, err := stats.Percentile(c.durationsSeconds, 95)
	if err != nil {
		panic(fmt.Errorf("unexpected err in arrayCollector.Aggregate() while calculating p95: %w", err))
	}

	return &Aggregation{
		Count: len(c.durationsSeconds),
		P50:   toDuration(p50),
		P75:   toDuration(p75),
		P95:   toDuration(p95),
	}
}

func (c *arrayCollector) Reset() {
	c.durationsSecondsMux.Lock()
	c.durationsSeconds = []float64{}
	c.durationsSecondsMux.Unlock()
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
