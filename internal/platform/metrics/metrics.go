package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-wide counters served at /metrics.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	surveysTriggered uint64
	webhookFailures  uint64
	jobFailures      uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) SurveysTriggered(n int) {
	if c == nil || n <= 0 {
		return
	}
	atomic.AddUint64(&c.surveysTriggered, uint64(n))
}

func (c *Collector) WebhookFailed() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.webhookFailures, 1)
}

func (c *Collector) JobFailed() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.jobFailures, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           errs,
		"rateLimitedTotal":      limited,
		"avgDurationMs":         avg,
		"totalDurationMs":       totalMs,
		"surveysTriggeredTotal": atomic.LoadUint64(&c.surveysTriggered),
		"webhookFailuresTotal":  atomic.LoadUint64(&c.webhookFailures),
		"jobFailuresTotal":      atomic.LoadUint64(&c.jobFailures),
	}
}
