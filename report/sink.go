// Package report holds the recording side of a run: sinks that
// receive interval and completion aggregates from the master, and the
// alert channel.

package report

import (
	"github.com/eyeKill/KVBench/common"
)

// Sink receives aggregates from the master. RecordInterval gets one
// combined table per second tick; RecordCompletion gets the counters
// of exactly one finished job, independent of tick timing.
type Sink interface {
	RecordInterval(table common.CounterTable)
	RecordCompletion(table common.CounterTable, latency common.LatencySummary)
	// Report emits the final run summary.
	Report()
	// Stop tears down any background state. Called exactly once,
	// before any final Report.
	Stop()
}

// AlertChannel receives out-of-band (name, severity) events.
type AlertChannel interface {
	Raise(alert common.Alert)
}

type multiSink []Sink

// Multi fans every record out to all given sinks.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) RecordInterval(table common.CounterTable) {
	for _, s := range m {
		s.RecordInterval(table)
	}
}

func (m multiSink) RecordCompletion(table common.CounterTable, latency common.LatencySummary) {
	for _, s := range m {
		s.RecordCompletion(table, latency)
	}
}

func (m multiSink) Report() {
	for _, s := range m {
		s.Report()
	}
}

func (m multiSink) Stop() {
	for _, s := range m {
		s.Stop()
	}
}
