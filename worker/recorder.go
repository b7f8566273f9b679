package worker

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/atomic"

	"github.com/eyeKill/KVBench/common"
)

// Recorder collects operation outcomes on two granularities at once:
// interval counters, snapshotted and reset on every probe, and
// per-job counters plus a latency histogram, read once per finished
// job. Interval cells are atomics because the executor goroutine
// writes them while the message loop snapshots them.
type Recorder struct {
	interval [common.NumOpTypes][common.NumMetrics]atomic.Int64

	// job state is touched by the executor goroutine only
	job  common.CounterTable
	hist *hdrhistogram.Histogram

	mu     sync.Mutex
	alerts []common.Alert
}

func NewRecorder() *Recorder {
	return &Recorder{
		// 1us to 1min, 3 significant figures
		hist: hdrhistogram.New(1, int64(time.Minute/time.Microsecond), 3),
	}
}

// Record counts one operation outcome.
func (r *Recorder) Record(op common.OpType, m common.Metric) {
	r.interval[op][m].Inc()
	r.job.Add(op, m, 1)
}

// RecordLatency records one successful operation with its latency.
func (r *Recorder) RecordLatency(op common.OpType, d time.Duration) {
	r.Record(op, common.MetricCount)
	_ = r.hist.RecordValue(d.Microseconds())
}

// Raise queues an out-of-band alert for delivery to the master.
func (r *Recorder) Raise(name, severity string) {
	r.mu.Lock()
	r.alerts = append(r.alerts, common.Alert{Name: name, Severity: severity})
	r.mu.Unlock()
}

func (r *Recorder) takeAlerts() []common.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	alerts := r.alerts
	r.alerts = nil
	return alerts
}

// SnapshotInterval returns the counters accumulated since the last
// probe and resets them.
func (r *Recorder) SnapshotInterval() common.CounterTable {
	var table common.CounterTable
	for op := common.OpType(0); op < common.NumOpTypes; op++ {
		for m := common.Metric(0); m < common.NumMetrics; m++ {
			table[op][m] = r.interval[op][m].Swap(0)
		}
	}
	return table
}

// FinishJob returns the finished job's counters and latency summary
// and resets the per-job state.
func (r *Recorder) FinishJob() (common.CounterTable, common.LatencySummary) {
	table := r.job
	summary := common.LatencySummary{
		Count: r.hist.TotalCount(),
		P50:   r.hist.ValueAtQuantile(50),
		P95:   r.hist.ValueAtQuantile(95),
		P99:   r.hist.ValueAtQuantile(99),
		Max:   r.hist.Max(),
	}
	r.job.Reset()
	r.hist.Reset()
	return table, summary
}
