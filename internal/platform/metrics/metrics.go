// Package metrics keeps coarse in-process request counters for the
// admin metrics endpoint. Counters reset when the process restarts.
package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	requests     atomic.Uint64
	clientErrors atomic.Uint64
	serverErrors atomic.Uint64
	unauthorized atomic.Uint64
	rateLimited  atomic.Uint64
	durationMs   atomic.Uint64
	slowestMs    atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	switch {
	case status >= 500:
		c.serverErrors.Add(1)
	case status == 401:
		c.unauthorized.Add(1)
	case status == 429:
		c.rateLimited.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}

	ms := uint64(duration.Milliseconds())
	c.durationMs.Add(ms)
	for {
		slowest := c.slowestMs.Load()
		if ms <= slowest || c.slowestMs.CompareAndSwap(slowest, ms) {
			return
		}
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := c.requests.Load()
	totalMs := c.durationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":     total,
		"clientErrorsTotal": c.clientErrors.Load(),
		"serverErrorsTotal": c.serverErrors.Load(),
		"unauthorizedTotal": c.unauthorized.Load(),
		"rateLimitedTotal":  c.rateLimited.Load(),
		"avgDurationMs":     avg,
		"slowestDurationMs": c.slowestMs.Load(),
	}
}
