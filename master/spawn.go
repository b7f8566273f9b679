// spawn: the real Launcher. Workers are child processes speaking the
// message protocol over their stdin/stdout pipes.

package master

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
)

type execLauncher struct {
	bin  string
	args []string
}

// NewExecLauncher launches each worker as `bin args...`. Worker
// stderr passes through to the master's stderr.
func NewExecLauncher(bin string, args []string) Launcher {
	return &execLauncher{bin: bin, args: args}
}

type execProc struct {
	id  int
	out *common.MessageWriter
}

func (p *execProc) ID() int { return p.id }

// Send writes synchronously to the worker's stdin. The OS pipe
// buffer bounds how far the controller can run ahead of a worker
// that has stopped draining its input; an unresponsive worker can
// stall this call, just as it can stall cooperative shutdown.
func (p *execProc) Send(msg common.Message) error {
	return p.out.Write(msg)
}

func (l *execLauncher) Launch(id int, events chan<- Event) (WorkerProc, error) {
	cmd := exec.Command(l.bin, l.args...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting worker %d", id)
	}
	common.Log().Info("Worker process started.",
		zap.Int("worker", id), zap.Int("pid", cmd.Process.Pid))

	go func() {
		reader := common.NewMessageReader(stdout)
		for {
			msg, err := reader.Read()
			if err != nil {
				break
			}
			events <- Event{WorkerID: id, Msg: &msg}
		}
		// pipe closed: collect the exit status after the message
		// stream is fully drained
		status := 0
		if err := cmd.Wait(); err != nil {
			status = 1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				status = exitErr.ExitCode()
			}
		}
		events <- Event{WorkerID: id, Exited: true, Status: status}
	}()

	return &execProc{id: id, out: common.NewMessageWriter(stdin)}, nil
}
