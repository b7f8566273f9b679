package master_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eyeKill/KVBench/common"
	"github.com/eyeKill/KVBench/master"
)

type fakeSink struct {
	intervals   []common.CounterTable
	completions []common.CounterTable
	reports     int
	stops       int
}

func (s *fakeSink) RecordInterval(table common.CounterTable) {
	s.intervals = append(s.intervals, table)
}

func (s *fakeSink) RecordCompletion(table common.CounterTable, _ common.LatencySummary) {
	s.completions = append(s.completions, table)
}

func (s *fakeSink) Report() { s.reports++ }
func (s *fakeSink) Stop()   { s.stops++ }

func workerTable(reads, timeouts int64) common.CounterTable {
	var t common.CounterTable
	t.Add(common.OpRead, common.MetricCount, reads)
	t.Add(common.OpRead, common.MetricTimeouts, timeouts)
	return t
}

func TestFlushHappensOnlyWhenAllWorkersReported(t *testing.T) {
	ast := assert.New(t)
	sink := &fakeSink{}
	agg := master.NewAggregator(benchConfig(), sink, &bytes.Buffer{})

	agg.Fold(workerTable(10, 0), 2)
	ast.Empty(sink.intervals)
	ast.Equal(1, agg.Received())

	agg.Fold(workerTable(15, 1), 2)
	ast.Len(sink.intervals, 1)
	ast.Equal(int64(25), sink.intervals[0].Get(common.OpRead, common.MetricCount))
	ast.Equal(int64(1), sink.intervals[0].Get(common.OpRead, common.MetricTimeouts))

	// the tick table resets to all-zero immediately after a flush
	ast.Equal(common.CounterTable{}, agg.Table())
	ast.Equal(0, agg.Received())
}

func TestTickBoundaryResetDropsPartialReports(t *testing.T) {
	ast := assert.New(t)
	sink := &fakeSink{}
	agg := master.NewAggregator(benchConfig(), sink, &bytes.Buffer{})

	// one of two workers reported, then the tick fired
	agg.Fold(workerTable(10, 0), 2)
	agg.Reset()
	ast.Empty(sink.intervals)

	// late arrivals count toward the new tick, not the old one
	agg.Fold(workerTable(5, 0), 2)
	agg.Fold(workerTable(7, 0), 2)
	ast.Len(sink.intervals, 1)
	ast.Equal(int64(12), sink.intervals[0].Get(common.OpRead, common.MetricCount))
}

func TestIntervalLineSuppression(t *testing.T) {
	ast := assert.New(t)
	cfg := benchConfig()
	var out bytes.Buffer
	agg := master.NewAggregator(cfg, &fakeSink{}, &out)
	agg.Fold(workerTable(10, 0), 1)
	ast.Contains(out.String(), "read")
	// no query or scan workers, no query or scan lines
	ast.NotContains(out.String(), "query")
	ast.NotContains(out.String(), "scan")

	cfg.Silent = true
	out.Reset()
	agg.Fold(workerTable(10, 0), 1)
	ast.Empty(out.String())
}

func TestCompletionForwardsToSink(t *testing.T) {
	sink := &fakeSink{}
	agg := master.NewAggregator(benchConfig(), sink, &bytes.Buffer{})
	agg.Completion(workerTable(100, 2), common.LatencySummary{Count: 100})
	assert.Len(t, sink.completions, 1)
	assert.Empty(t, sink.intervals)
}

func TestFinalizeRespectsSummaryFlag(t *testing.T) {
	ast := assert.New(t)

	cfg := benchConfig()
	cfg.Summary = true
	sink := &fakeSink{}
	master.NewAggregator(cfg, sink, &bytes.Buffer{}).Finalize()
	ast.Equal(1, sink.stops)
	ast.Equal(1, sink.reports)

	// no summary requested: sink still stops, no report
	cfg = benchConfig()
	sink = &fakeSink{}
	master.NewAggregator(cfg, sink, &bytes.Buffer{}).Finalize()
	ast.Equal(1, sink.stops)
	ast.Equal(0, sink.reports)

	// no read/write workers: no report either
	cfg = benchConfig()
	cfg.Summary = true
	cfg.Processes = 1
	cfg.Queries = []common.QuerySpec{{Type: common.QueryEqual, Bin: "b", Value: "x"}}
	sink = &fakeSink{}
	master.NewAggregator(cfg, sink, &bytes.Buffer{}).Finalize()
	ast.Equal(1, sink.stops)
	ast.Equal(0, sink.reports)
}
