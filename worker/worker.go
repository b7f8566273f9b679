// Worker is the process-side half of the harness: it signals ready,
// executes whatever jobs the master dispatches and answers interval
// probes. The actual service calls live behind the Executor
// interface.

package worker

import (
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
)

// Executor performs one job's workload against the target service,
// recording outcomes through the Recorder.
type Executor interface {
	ReadWrite(job common.Job, rec *Recorder) error
	Query(job common.Job, rec *Recorder) error
	Scan(job common.Job, rec *Recorder) error
}

type Worker struct {
	exec Executor
	in   *common.MessageReader
	out  *common.MessageWriter
	rec  *Recorder
	log  *zap.Logger

	// the message loop and the job goroutine both write to out
	writeMu sync.Mutex
	jobs    sync.WaitGroup
}

func New(exec Executor, r io.Reader, w io.Writer) *Worker {
	return &Worker{
		exec: exec,
		in:   common.NewMessageReader(r),
		out:  common.NewMessageWriter(w),
		rec:  NewRecorder(),
		log:  common.Log(),
	}
}

// Run drives the worker until the master sends end or closes the
// pipe. The returned error is fatal (the process should exit
// non-zero); a clean end returns nil.
func (w *Worker) Run() error {
	if err := w.send(common.Message{Kind: common.MsgReady}); err != nil {
		return err
	}
	for {
		msg, err := w.in.Read()
		if err == io.EOF {
			w.jobs.Wait()
			return nil
		}
		if err != nil {
			return err
		}
		switch msg.Kind {
		case common.MsgRun, common.MsgQuery:
			if msg.Job == nil {
				w.log.Warn("Job message without job description.")
				continue
			}
			job := *msg.Job
			kind := msg.Kind
			w.jobs.Add(1)
			go func() {
				defer w.jobs.Done()
				w.execute(kind, job)
			}()
		case common.MsgTrans:
			table := w.rec.SnapshotInterval()
			if err := w.send(common.Message{Kind: common.MsgInterval, Stats: &table}); err != nil {
				return err
			}
		case common.MsgEnd:
			w.jobs.Wait()
			return nil
		default:
			w.log.Warn("Unexpected message from master.", zap.String("kind", string(msg.Kind)))
		}
	}
}

func (w *Worker) execute(kind common.MsgKind, job common.Job) {
	var err error
	switch {
	case kind == common.MsgRun:
		err = w.exec.ReadWrite(job, w.rec)
	case job.Scan != nil:
		err = w.exec.Scan(job, w.rec)
	default:
		err = w.exec.Query(job, w.rec)
	}
	if err != nil {
		w.log.Error("Job failed.", zap.Error(err))
	}
	for _, alert := range w.rec.takeAlerts() {
		a := alert
		_ = w.send(common.Message{Kind: common.MsgAlert, Alert: &a})
	}
	table, latency := w.rec.FinishJob()
	_ = w.send(common.Message{Kind: common.MsgStats, Stats: &table, Latency: &latency})
}

func (w *Worker) send(msg common.Message) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.out.Write(msg)
}
