// sim: an Executor that emulates the target service so the harness
// can run end to end without one. Real clients implement Executor in
// their own package.

package worker

import (
	"math/rand"
	"time"

	"github.com/eyeKill/KVBench/common"
)

// SimExecutor draws per-operation latencies around Latency and fails
// a configurable fraction of operations as timeouts or errors.
type SimExecutor struct {
	Latency     time.Duration
	TimeoutRate float64
	ErrorRate   float64
	// records returned by one simulated query or scan
	QueryRecords int

	rng *rand.Rand
}

func NewSimExecutor(latency time.Duration, timeoutRate, errorRate float64) *SimExecutor {
	return &SimExecutor{
		Latency:      latency,
		TimeoutRate:  timeoutRate,
		ErrorRate:    errorRate,
		QueryRecords: 1000,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SimExecutor) ReadWrite(job common.Job, rec *Recorder) error {
	reads, writes := job.Rops, job.Wops
	for reads > 0 || writes > 0 {
		// interleave proportionally so interval snapshots see both
		op := common.OpRead
		if writes > 0 && (reads == 0 || s.rng.Intn(reads+writes) < writes) {
			op = common.OpWrite
			writes--
		} else {
			reads--
		}
		s.operation(op, rec)
	}
	return nil
}

func (s *SimExecutor) Query(job common.Job, rec *Recorder) error {
	for i := 0; i < s.QueryRecords; i++ {
		s.operation(common.OpQuery, rec)
	}
	return nil
}

func (s *SimExecutor) Scan(job common.Job, rec *Recorder) error {
	n := s.QueryRecords
	if job.Scan != nil && job.Scan.Percent > 0 {
		n = n * job.Scan.Percent / 100
	}
	for i := 0; i < n; i++ {
		s.operation(common.OpScan, rec)
	}
	return nil
}

func (s *SimExecutor) operation(op common.OpType, rec *Recorder) {
	start := time.Now()
	s.sleep()
	switch f := s.rng.Float64(); {
	case f < s.TimeoutRate:
		rec.Record(op, common.MetricTimeouts)
	case f < s.TimeoutRate+s.ErrorRate:
		rec.Record(op, common.MetricErrors)
	default:
		rec.RecordLatency(op, time.Since(start))
	}
}

func (s *SimExecutor) sleep() {
	if s.Latency <= 0 {
		return
	}
	// +-50% jitter around the configured latency
	jitter := time.Duration(s.rng.Int63n(int64(s.Latency))) - s.Latency/2
	time.Sleep(s.Latency + jitter)
}
