// Package metrics counts ledger queries and funding polls with atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Query operations recorded by ledger clients.
const (
	OpBalance = "balance"
	OpName    = "name"
)

// Metrics holds counters that are safe for concurrent use.
type Metrics struct {
	queriesTotal  atomic.Int64
	queryErrors   atomic.Int64
	latencyNanos  atomic.Int64
	balanceQuery  atomic.Int64
	nameQuery     atomic.Int64
	fundingPolls  atomic.Int64
	namesResolved atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordQuery records one ledger query of kind op.
func (m *Metrics) RecordQuery(op string, duration time.Duration, err error) {
	m.queriesTotal.Add(1)
	m.latencyNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.queryErrors.Add(1)
	}

	switch op {
	case OpBalance:
		m.balanceQuery.Add(1)
	case OpName:
		m.nameQuery.Add(1)
	}
}

// RecordPoll records one funding poll iteration.
func (m *Metrics) RecordPoll() {
	m.fundingPolls.Add(1)
}

// RecordResolved adds n successfully resolved names.
func (m *Metrics) RecordResolved(n int) {
	m.namesResolved.Add(int64(n))
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	QueriesTotal  int64 `json:"queries_total"`
	QueryErrors   int64 `json:"query_errors"`
	LatencyNanos  int64 `json:"latency_nanos"`
	BalanceQuery  int64 `json:"balance_queries"`
	NameQuery     int64 `json:"name_queries"`
	FundingPolls  int64 `json:"funding_polls"`
	NamesResolved int64 `json:"names_resolved"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		QueriesTotal:  m.queriesTotal.Load(),
		QueryErrors:   m.queryErrors.Load(),
		LatencyNanos:  m.latencyNanos.Load(),
		BalanceQuery:  m.balanceQuery.Load(),
		NameQuery:     m.nameQuery.Load(),
		FundingPolls:  m.fundingPolls.Load(),
		NamesResolved: m.namesResolved.Load(),
	}
}

// LatencyAvgMs returns the average query latency in milliseconds, or 0
// before the first query.
func (s Snapshot) LatencyAvgMs() float64 {
	if s.QueriesTotal == 0 {
		return 0
	}
	return float64(s.LatencyNanos) / float64(s.QueriesTotal) / 1e6
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	m.queriesTotal.Store(0)
	m.queryErrors.Store(0)
	m.latencyNanos.Store(0)
	m.balanceQuery.Store(0)
	m.nameQuery.Store(0)
	m.fundingPolls.Store(0)
	m.namesResolved.Store(0)
}
