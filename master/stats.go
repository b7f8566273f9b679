// stats: per-second aggregation of worker interval counters.

package master

import (
	"fmt"
	"io"

	"github.com/eyeKill/KVBench/common"
	"github.com/eyeKill/KVBench/report"
)

// Aggregator folds per-worker interval tables into one global
// per-tick table. The table is owned exclusively by the aggregator
// and only ever touched from the controller goroutine.
type Aggregator struct {
	cfg  *common.RunConfig
	sink report.Sink
	out  io.Writer

	table    common.CounterTable
	received int
}

func NewAggregator(cfg *common.RunConfig, sink report.Sink, out io.Writer) *Aggregator {
	return &Aggregator{cfg: cfg, sink: sink, out: out}
}

// Fold adds one worker's interval report. Once every live worker has
// reported for the current tick the combined record is flushed to the
// sink and the table resets.
func (a *Aggregator) Fold(table common.CounterTable, live int) {
	a.table.Fold(table)
	a.received++
	if live > 0 && a.received >= live {
		a.flush()
	}
}

func (a *Aggregator) flush() {
	a.sink.RecordInterval(a.table)
	if !a.cfg.Silent {
		a.printInterval()
	}
	a.Reset()
}

// Reset clears the tick state. Called at every tick boundary; reports
// that missed their tick get attributed to whichever tick is current
// when they arrive. That inaccuracy under load is accepted.
func (a *Aggregator) Reset() {
	a.table.Reset()
	a.received = 0
}

// Received reports how many workers have reported this tick.
func (a *Aggregator) Received() int {
	return a.received
}

// Table exposes a copy of the current tick's table.
func (a *Aggregator) Table() common.CounterTable {
	return a.table
}

// printInterval writes one human-readable line per operation type
// that has at least one active worker.
func (a *Aggregator) printInterval() {
	if a.cfg.ReadWriteWorkers() > 0 {
		a.printRow(common.OpRead)
		a.printRow(common.OpWrite)
	}
	if len(a.cfg.Queries) > 0 {
		a.printRow(common.OpQuery)
	}
	if len(a.cfg.Scans) > 0 {
		a.printRow(common.OpScan)
	}
}

func (a *Aggregator) printRow(op common.OpType) {
	row := a.table.Row(op)
	fmt.Fprintf(a.out, "%-6s tps=%d timeouts=%d errors=%d\n",
		op, row[common.MetricCount], row[common.MetricTimeouts], row[common.MetricErrors])
}

// Completion forwards one finished job's counters to the sink's
// per-job recorder. This is a separate channel from the interval
// flush.
func (a *Aggregator) Completion(table common.CounterTable, latency common.LatencySummary) {
	a.sink.RecordCompletion(table, latency)
}

// Finalize stops the sink and, when a summary was requested and the
// run had read/write workers, emits the final report.
func (a *Aggregator) Finalize() {
	a.sink.Stop()
	if a.cfg.Summary && a.cfg.ReadWriteWorkers() > 0 {
		a.sink.Report()
	}
}
