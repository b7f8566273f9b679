package report

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
)

var metricNames = map[common.Metric]string{
	common.MetricCount:    "ok",
	common.MetricTimeouts: "timeout",
	common.MetricErrors:   "error",
}

// PromSink exports interval aggregates as prometheus counters and
// optionally serves them over HTTP. It also implements AlertChannel.
type PromSink struct {
	operations *prometheus.CounterVec
	jobs       prometheus.Counter
	alerts     *prometheus.CounterVec
	server     *http.Server
	log        *zap.Logger
}

func NewPromSink(reg *prometheus.Registry) *PromSink {
	factory := promauto.With(reg)
	return &PromSink{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kvbench_operations_total",
			Help: "Operations performed, by operation type and outcome.",
		}, []string{"op", "outcome"}),
		jobs: factory.NewCounter(prometheus.CounterOpts{
			Name: "kvbench_jobs_completed_total",
			Help: "Worker jobs completed.",
		}),
		alerts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kvbench_alerts_total",
			Help: "Alert events raised by workers, by severity.",
		}, []string{"severity"}),
		log: common.Log(),
	}
}

// Serve starts the /metrics listener. Stop shuts it down.
func (s *PromSink) Serve(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.server = &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("Metrics listener failed.", zap.String("addr", addr), zap.Error(err))
		}
	}()
	s.log.Info("Serving metrics.", zap.String("addr", addr))
}

func (s *PromSink) RecordInterval(table common.CounterTable) {
	for op := common.OpType(0); op < common.NumOpTypes; op++ {
		for m := common.Metric(0); m < common.NumMetrics; m++ {
			if v := table.Get(op, m); v > 0 {
				s.operations.WithLabelValues(op.String(), metricNames[m]).Add(float64(v))
			}
		}
	}
}

func (s *PromSink) RecordCompletion(_ common.CounterTable, _ common.LatencySummary) {
	s.jobs.Inc()
}

func (s *PromSink) Raise(alert common.Alert) {
	s.alerts.WithLabelValues(alert.Severity).Inc()
}

func (s *PromSink) Report() {}

func (s *PromSink) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.server.Shutdown(ctx)
	s.server = nil
}
