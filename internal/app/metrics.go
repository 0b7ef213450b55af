package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks generation and render counters.
type Metrics struct {
	// Generation cycles
	cycleCount    atomic.Uint64
	cycleTotalNs  atomic.Int64
	cycleMaxNs    atomic.Int64
	lastCycleNs   atomic.Int64
	skippedCycles atomic.Uint64

	// Per-rule outcomes
	findings     atomic.Uint64
	ruleFailures atomic.Uint64

	// Render timing
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordCycle records a finished generation cycle.
func (m *Metrics) RecordCycle(duration time.Duration, findings, failures int) {
	ns := duration.Nanoseconds()

	m.cycleCount.Add(1)
	m.cycleTotalNs.Add(ns)
	m.lastCycleNs.Store(ns)
	m.findings.Add(uint64(max(findings, 0)))
	m.ruleFailures.Add(uint64(max(failures, 0)))

	for {
		old := m.cycleMaxNs.Load()
		if ns <= old {
			break
		}
		if m.cycleMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordSkippedCycle records a cycle that was not started.
func (m *Metrics) RecordSkippedCycle() {
	m.skippedCycles.Add(1)
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(duration time.Duration) {
	m.renderCount.Add(1)
	m.renderTotalNs.Add(duration.Nanoseconds())
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	cycles := m.cycleCount.Load()
	renders := m.renderCount.Load()

	var avgCycle, avgRender time.Duration
	if cycles > 0 {
		avgCycle = time.Duration(m.cycleTotalNs.Load() / int64(cycles))
	}
	if renders > 0 {
		avgRender = time.Duration(m.renderTotalNs.Load() / int64(renders))
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		Cycles:        cycles,
		SkippedCycles: m.skippedCycles.Load(),
		AvgCycle:      avgCycle,
		MaxCycle:      time.Duration(m.cycleMaxNs.Load()),
		LastCycle:     time.Duration(m.lastCycleNs.Load()),
		Findings:      m.findings.Load(),
		RuleFailures:  m.ruleFailures.Load(),
		Renders:       renders,
		AvgRender:     avgRender,
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	Cycles        uint64
	SkippedCycles uint64
	AvgCycle      time.Duration
	MaxCycle      time.Duration
	LastCycle     time.Duration
	Findings      uint64
	RuleFailures  uint64
	Renders       uint64
	AvgRender     time.Duration
}

// Fields returns the snapshot as log fields.
func (s MetricsSnapshot) Fields() map[string]any {
	return map[string]any{
		"uptime":        s.Uptime.Round(time.Second),
		"cycles":        s.Cycles,
		"skipped":       s.SkippedCycles,
		"avg_cycle":     s.AvgCycle.Round(time.Millisecond),
		"findings":      s.Findings,
		"rule_failures": s.RuleFailures,
		"renders":       s.Renders,
	}
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
