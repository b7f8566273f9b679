package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/eyeKill/KVBench/common"
)

// ConsoleSink accumulates run totals from completion reports and
// writes the final summary to out. The per-second console line is the
// aggregator's business.
type ConsoleSink struct {
	RunID uuid.UUID

	out     io.Writer
	start   time.Time
	end     time.Time
	stopped bool
	totals  common.CounterTable
	jobs    int64
	// worst latency seen across all completed jobs, microseconds
	maxLatency int64
	worstP99   int64
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{
		RunID: uuid.New(),
		out:   out,
		start: time.Now(),
	}
}

// RecordInterval is a no-op here: run totals fold from completion
// reports, which also cover the tail between the last tick and
// shutdown.
func (s *ConsoleSink) RecordInterval(common.CounterTable) {}

func (s *ConsoleSink) RecordCompletion(table common.CounterTable, latency common.LatencySummary) {
	s.jobs++
	s.totals.Fold(table)
	if latency.Max > s.maxLatency {
		s.maxLatency = latency.Max
	}
	if latency.P99 > s.worstP99 {
		s.worstP99 = latency.P99
	}
}

func (s *ConsoleSink) Stop() {
	if !s.stopped {
		s.stopped = true
		s.end = time.Now()
	}
}

func (s *ConsoleSink) Report() {
	end := s.end
	if !s.stopped {
		end = time.Now()
	}
	elapsed := end.Sub(s.start).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}
	total := s.totals.Total(common.MetricCount)

	fmt.Fprintf(s.out, "\nrun %s summary\n", s.RunID)
	fmt.Fprintf(s.out, "elapsed %.1fs, %d jobs completed, %d ops (%.0f tps average)\n",
		elapsed, s.jobs, total, float64(total)/elapsed)
	for op := common.OpType(0); op < common.NumOpTypes; op++ {
		row := s.totals.Row(op)
		if row[common.MetricCount] == 0 && row[common.MetricTimeouts] == 0 &&
			row[common.MetricErrors] == 0 {
			continue
		}
		fmt.Fprintf(s.out, "%-6s count=%d timeouts=%d errors=%d\n",
			op, row[common.MetricCount], row[common.MetricTimeouts], row[common.MetricErrors])
	}
	if s.jobs > 0 {
		fmt.Fprintf(s.out, "latency worst p99=%.2fms max=%.2fms\n",
			float64(s.worstP99)/1000.0, float64(s.maxLatency)/1000.0)
	}
}

// Totals exposes the accumulated run totals.
func (s *ConsoleSink) Totals() common.CounterTable {
	return s.totals
}
