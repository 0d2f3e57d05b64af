package observability

import "sync/atomic"

// Metrics holds in-process counters exposed on the health endpoint.
type Metrics struct {
	RequestsTotal    atomic.Int64
	RequestErrors    atomic.Int64
	TicketsCreated   atomic.Int64
	AIFallbacks      atomic.Int64
	AnalysisFailures atomic.Int64
}

// NewMetrics builds a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"requests_total":    m.RequestsTotal.Load(),
		"request_errors":    m.RequestErrors.Load(),
		"tickets_created":   m.TicketsCreated.Load(),
		"ai_fallbacks":      m.AIFallbacks.Load(),
		"analysis_failures": m.AnalysisFailures.Load(),
	}
}
