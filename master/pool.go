// pool: worker pool manager. Owns every worker handle, assigns roles
// as workers come online and decides per completion report whether a
// worker gets another job or retires. All methods are called from the
// controller goroutine only, so no locking is needed.

package master

import (
	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
)

type WorkerState int

const (
	StateStarting WorkerState = iota
	StateReady
	StateAssigned
	StateRunning
	StateRetiring
	StateExited
)

// WorkerProc is the controller-side handle of one worker process.
type WorkerProc interface {
	ID() int
	Send(msg common.Message) error
}

// WorkerHandle is mutable state owned exclusively by the pool.
type WorkerHandle struct {
	proc      WorkerProc
	role      Role
	iteration int
	state     WorkerState
}

type Pool struct {
	cfg      *common.RunConfig
	assigner *Assigner
	log      *zap.Logger

	// pending roles in fixed priority order: read/write slots first,
	// then one query slot per spec, then scan slots
	pending []Role
	workers map[int]*WorkerHandle
	online  int
	exited  int
}

func NewPool(cfg *common.RunConfig, assigner *Assigner) *Pool {
	var pending []Role
	for i := 0; i < cfg.ReadWriteWorkers(); i++ {
		pending = append(pending, Role{Kind: RoleReadWrite})
	}
	for i := range cfg.Queries {
		pending = append(pending, Role{Kind: RoleQuery, Index: i})
	}
	for i := range cfg.Scans {
		pending = append(pending, Role{Kind: RoleScan, Index: i})
	}
	return &Pool{
		cfg:      cfg,
		assigner: assigner,
		log:      common.Log(),
		pending:  pending,
		workers:  make(map[int]*WorkerHandle),
	}
}

// Register adds a freshly spawned worker in the Starting state.
func (p *Pool) Register(proc WorkerProc) {
	p.workers[proc.ID()] = &WorkerHandle{proc: proc, state: StateStarting}
}

// Online handles a worker's ready signal: pop the next pending role
// and dispatch the first job. Role assignment happens exactly once
// per worker, independent of process launch order.
func (p *Pool) Online(id int) {
	w, ok := p.workers[id]
	if !ok || w.state != StateStarting {
		p.log.Warn("Spurious ready signal.", zap.Int("worker", id))
		return
	}
	if len(p.pending) == 0 {
		p.log.Warn("No role left for worker.", zap.Int("worker", id))
		return
	}
	w.role = p.pending[0]
	p.pending = p.pending[1:]
	w.state = StateAssigned
	p.online++
	p.log.Info("Worker online.",
		zap.Int("worker", id), zap.String("role", w.role.Kind.String()))
	p.dispatch(w)
}

func (p *Pool) dispatch(w *WorkerHandle) {
	w.iteration++
	kind, job := p.assigner.Build(w.role, w.iteration)
	if err := w.proc.Send(common.Message{Kind: kind, Job: &job}); err != nil {
		p.log.Error("Failed to dispatch job.",
			zap.Int("worker", w.proc.ID()), zap.Error(err))
	}
	w.state = StateRunning
}

// Completed handles one completion report. Read/write workers keep
// looping until the iteration limit (when no duration is configured)
// is reached; query and scan workers are one-shot.
func (p *Pool) Completed(id int) {
	w, ok := p.workers[id]
	if !ok || w.state != StateRunning {
		return
	}
	if w.role.Kind == RoleReadWrite && p.continueWorker(w) {
		p.dispatch(w)
		return
	}
	p.End(id)
}

func (p *Pool) continueWorker(w *WorkerHandle) bool {
	if p.cfg.DurationMode() {
		// the duration timer alone decides when the run stops
		return true
	}
	if p.cfg.Iterations == 0 {
		return true
	}
	return w.iteration < p.cfg.Iterations
}

// End requests a single worker's voluntary exit.
func (p *Pool) End(id int) {
	w, ok := p.workers[id]
	if !ok || w.state == StateExited || w.state == StateRetiring {
		return
	}
	if err := w.proc.Send(common.Message{Kind: common.MsgEnd}); err != nil {
		p.log.Error("Failed to send end signal.", zap.Int("worker", id), zap.Error(err))
	}
	w.state = StateRetiring
}

// EndAll requests every live worker's voluntary exit. Nothing is
// terminated forcibly; a worker that never exits stalls the run by
// design.
func (p *Pool) EndAll() {
	for id := range p.workers {
		p.End(id)
	}
}

// ProbeAll asks every online worker to immediately report its current
// interval counters.
func (p *Pool) ProbeAll() {
	for id, w := range p.workers {
		if w.state == StateStarting || w.state == StateExited {
			continue
		}
		if err := w.proc.Send(common.Message{Kind: common.MsgTrans}); err != nil {
			p.log.Error("Failed to probe worker.", zap.Int("worker", id), zap.Error(err))
		}
	}
}

// Exited marks a worker gone and returns the number of workers still
// live.
func (p *Pool) Exited(id int) int {
	w, ok := p.workers[id]
	if !ok || w.state == StateExited {
		return p.Live()
	}
	if w.state != StateStarting {
		p.online--
	}
	w.state = StateExited
	p.exited++
	return p.Live()
}

// Live returns the number of workers that are past Starting and have
// not exited. The aggregator flushes once this many interval reports
// arrive.
func (p *Pool) Live() int {
	return p.online
}

// Remaining returns how many spawned workers have not exited yet.
func (p *Pool) Remaining() int {
	return len(p.workers) - p.exited
}

// State exposes a worker's lifecycle state.
func (p *Pool) State(id int) WorkerState {
	w, ok := p.workers[id]
	if !ok {
		return StateExited
	}
	return w.state
}
