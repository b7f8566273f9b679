// Master drives one benchmark run: it spawns the worker pool, reacts
// to worker messages, the per-second tick and the optional duration
// timer in a single event loop, and decides the process exit status.

package master

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
	"github.com/eyeKill/KVBench/report"
)

// Event is one occurrence delivered to the controller loop: either a
// message from a worker or its exit notification.
type Event struct {
	WorkerID int
	Msg      *common.Message
	Exited   bool
	Status   int
}

// Launcher spawns worker processes. Spawned workers deliver their
// messages and exit notification to the given event channel.
type Launcher interface {
	Launch(id int, events chan<- Event) (WorkerProc, error)
}

type Master struct {
	cfg      *common.RunConfig
	pool     *Pool
	agg      *Aggregator
	alerts   report.AlertChannel
	launcher Launcher
	events   chan Event
	log      *zap.Logger

	// overridable in tests
	tickInterval time.Duration
}

func NewMaster(cfg *common.RunConfig, sink report.Sink, alerts report.AlertChannel, launcher Launcher) *Master {
	return NewMasterWithOutput(cfg, sink, alerts, launcher, os.Stdout)
}

func NewMasterWithOutput(cfg *common.RunConfig, sink report.Sink, alerts report.AlertChannel,
	launcher Launcher, out io.Writer) *Master {
	return &Master{
		cfg:          cfg,
		pool:         NewPool(cfg, NewAssigner(cfg)),
		agg:          NewAggregator(cfg, sink, out),
		alerts:       alerts,
		launcher:     launcher,
		events:       make(chan Event, 64),
		log:          common.Log(),
		tickInterval: time.Second,
	}
}

// Run executes the whole benchmark and returns the process exit
// status: 0 when every worker retired voluntarily, 1 on invalid
// configuration or any worker fault.
func (m *Master) Run(ctx context.Context) int {
	if err := m.cfg.Validate(); err != nil {
		m.log.Error("Invalid configuration.", zap.Error(err))
		return 1
	}

	for i := 0; i < m.cfg.Processes; i++ {
		proc, err := m.launcher.Launch(i, m.events)
		if err != nil {
			m.log.Error("Failed to spawn worker.", zap.Int("worker", i), zap.Error(err))
			return 1
		}
		m.pool.Register(proc)
	}
	m.log.Info("Workers spawned.",
		zap.Int("total", m.cfg.Processes),
		zap.Int("readWrite", m.cfg.ReadWriteWorkers()),
		zap.Int("query", len(m.cfg.Queries)),
		zap.Int("scan", len(m.cfg.Scans)))

	tick := time.NewTicker(m.tickInterval)
	defer tick.Stop()

	var durationC <-chan time.Time
	if m.cfg.DurationMode() {
		timer := time.NewTimer(time.Duration(m.cfg.Duration) * time.Second)
		defer timer.Stop()
		durationC = timer.C
	}

	for {
		select {
		case ev := <-m.events:
			if ev.Exited {
				if done, status := m.workerExited(ev); done {
					return status
				}
				continue
			}
			m.handleMessage(ev.WorkerID, *ev.Msg)

		case <-tick.C:
			m.agg.Reset()
			m.pool.ProbeAll()

		case <-durationC:
			m.log.Info("Duration elapsed, shutting down workers.")
			durationC = nil
			m.agg.Reset()
			m.pool.ProbeAll()
			m.pool.EndAll()

		case <-ctx.Done():
			m.log.Info("Run cancelled, shutting down workers.")
			m.pool.EndAll()
			ctx = context.Background()
		}
	}
}

func (m *Master) handleMessage(id int, msg common.Message) {
	switch msg.Kind {
	case common.MsgReady:
		m.pool.Online(id)
	case common.MsgInterval:
		if msg.Stats != nil {
			m.agg.Fold(*msg.Stats, m.pool.Live())
		}
	case common.MsgStats:
		if msg.Stats != nil {
			var latency common.LatencySummary
			if msg.Latency != nil {
				latency = *msg.Latency
			}
			m.agg.Completion(*msg.Stats, latency)
		}
		m.pool.Completed(id)
	case common.MsgAlert:
		if msg.Alert != nil {
			m.alerts.Raise(*msg.Alert)
		}
	default:
		m.log.Warn("Unexpected message from worker.",
			zap.Int("worker", id), zap.String("kind", string(msg.Kind)))
	}
}

// workerExited handles one exit notification. A non-zero status is a
// fatal fault: the run aborts immediately, abandoning the remaining
// workers.
func (m *Master) workerExited(ev Event) (done bool, status int) {
	if ev.Status != 0 {
		m.log.Error("Worker exited abnormally, aborting run.",
			zap.Int("worker", ev.WorkerID), zap.Int("status", ev.Status))
		m.agg.Finalize()
		return true, 1
	}
	m.pool.Exited(ev.WorkerID)
	m.log.Info("Worker exited.", zap.Int("worker", ev.WorkerID))
	if m.pool.Remaining() == 0 {
		m.log.Info("All workers retired.")
		m.agg.Finalize()
		return true, 0
	}
	return false, 0
}
