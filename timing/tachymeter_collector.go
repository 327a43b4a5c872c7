package timing

import (
	"time"

	"github.com/jamiealquiza/tachymeter"
)

// tachymeterCollector uses the jamiealquiza/tachymeter library to keep a
// sliding window of the most recent durations. It suits long-running
// processes such as the API server.
type tachymeterCollector struct {
	tach *tachymeter.Tachymeter
}

func NewTachymeterCollector(window int) *tachymeterCollector {
	return &tachymeterCollector{
		tach: tachymeter.New(&tachymeter.Config{
			Size: window,
		}),
	}
}

func (c *tachymeterCollector) Add(d time.Duration) {
	c.tach.AddTime(d)
}

// Len returns the number of durations in the window.
func (c *tachymeterCollector) Len() int {
	return c.tach.Calc().Samples
}

func (c *tachymeterCollector) Aggregate() *Aggregation {
	metrics := c.tach.Calc()
	if metrics.Samples == 0 {
		return &Aggregation{}
	}
	return &Aggregation{
		Count: metrics.Samples,
		P50:   metrics.Time.P50,
		P75:   metrics.Time.P75,
		P95:   metrics.Time.P95,
	}
}

func (c *tachymeterCollector) Reset() {
	c.tach.Reset()
}
