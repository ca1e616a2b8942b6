package services

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"chitchats/internal/infrastructure/config"
	"chitchats/internal/infrastructure/errors"
	"chitchats/internal/infrastructure/logging"
	"chitchats/internal/platform"
	"chitchats/internal/types"
)

const (
	// SidecarEnvFlag tells the backend it runs under the desktop shell
	SidecarEnvFlag = "CHITCHATS_SIDECAR"
	// SidecarRunIDEnv carries the run id of the current spawn
	SidecarRunIDEnv = "CHITCHATS_SIDECAR_RUN_ID"

	maxOutputLine = 1024 * 1024
	// outputFlushGrace bounds how long termination waits for output the
	// backend wrote right before exiting
	outputFlushGrace = 200 * time.Millisecond
)

// SidecarOptions describes how the backend executable is launched
type SidecarOptions struct {
	Path string
	Args []string
	Dir  string
	Env  []string // appended to the inherited environment
}

// SidecarOptionsFromConfig resolves launch options from configuration
func SidecarOptionsFromConfig(cfg *config.Config) SidecarOptions {
	return SidecarOptions{
		Path: cfg.SidecarPath(),
		Args: cfg.Sidecar.Args,
		Dir:  cfg.WorkDir(),
	}
}

type sidecarEventKind int

const (
	eventStdout sidecarEventKind = iota
	eventStderr
	eventError
	eventTerminated
)

type sidecarEvent struct {
	kind  sidecarEventKind
	line  string
	err   error
	state *os.ProcessState
}

// sidecarProcess is the handle of one spawned backend
type sidecarProcess struct {
	cmd       *exec.Cmd
	runID     string
	startedAt time.Time
	exited    chan struct{} // closed once the termination is handled
	done      chan struct{} // closed once both output streams are drained
}

// SidecarSupervisor owns the single backend subprocess
type SidecarSupervisor struct {
	mu         sync.Mutex
	current    *sidecarProcess
	opts       SidecarOptions
	controller platform.ProcessController
	logger     logging.Logger
	spawns     atomic.Int64
}

// NewSidecarSupervisor creates a supervisor; nothing is spawned until Start
func NewSidecarSupervisor(opts SidecarOptions, controller platform.ProcessController, logger logging.Logger) *SidecarSupervisor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if controller == nil {
		controller = platform.NewProcessController()
	}
	return &SidecarSupervisor{
		opts:       opts,
		controller: controller,
		logger:     logger,
	}
}

// Start spawns the backend unless one is already running. It returns once the
// process has been spawned, not once it is healthy.
func (s *SidecarSupervisor) Start(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = errors.HandleLockError("start_sidecar", r)
			logging.LogError(s.logger, err, "start_sidecar", nil)
		}
	}()

	if s.current != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("Starting backend sidecar...", "path", s.opts.Path)

	proc, stdout, stderr, err := s.spawn()
	if err != nil {
		wrapped := errors.WrapSpawnError("start_sidecar", s.opts.Path, err)
		logging.LogError(s.logger, wrapped, "start_sidecar", nil)
		return wrapped
	}

	s.current = proc
	s.spawns.Add(1)

	s.logger.Info("Backend sidecar spawned", "pid", proc.cmd.Process.Pid, "run_id", proc.runID)

	events := make(chan sidecarEvent, 64)
	go s.collect(proc, stdout, stderr, events)
	go s.drain(proc, events)

	return nil
}

// spawn starts the backend with its output on pipes the supervisor owns.
// Wait never touches them, so a descendant that inherited stdout cannot
// delay noticing the backend's exit.
func (s *SidecarSupervisor) spawn() (*sidecarProcess, *os.File, *os.File, error) {
	runID := uuid.NewString()

	cmd := exec.Command(s.opts.Path, s.opts.Args...)
	cmd.Dir = s.opts.Dir
	cmd.Env = append(os.Environ(), s.opts.Env...)
	cmd.Env = append(cmd.Env, SidecarEnvFlag+"=1", SidecarRunIDEnv+"="+runID)
	s.controller.Configure(cmd)

	stdout, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, nil, nil, err
	}
	stderr, stderrW, err := os.Pipe()
	if err != nil {
		stdout.Close()
		stdoutW.Close()
		return nil, nil, nil, err
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	err = cmd.Start()
	// The child holds its own copies of the write ends
	stdoutW.Close()
	stderrW.Close()
	if err != nil {
		stdout.Close()
		stderr.Close()
		return nil, nil, nil, err
	}

	return &sidecarProcess{
		cmd:       cmd,
		runID:     runID,
		startedAt: time.Now(),
		exited:    make(chan struct{}),
		done:      make(chan struct{}),
	}, stdout, stderr, nil
}

// collect merges both output streams and the exit into one event stream.
// The terminated event follows the exit, not the end of output: lines from
// descendants still holding the pipes may arrive after it.
func (s *SidecarSupervisor) collect(proc *sidecarProcess, stdout, stderr io.ReadCloser, events chan<- sidecarEvent) {
	var readers sync.WaitGroup
	readers.Add(2)
	go scanLines(stdout, eventStdout, events, &readers)
	go scanLines(stderr, eventStderr, events, &readers)

	drained := make(chan struct{})
	go func() {
		readers.Wait()
		close(drained)
	}()

	err := proc.cmd.Wait()

	select {
	case <-drained:
	case <-time.After(outputFlushGrace):
	}

	var exitErr *exec.ExitError
	if err != nil && !stderrors.As(err, &exitErr) {
		events <- sidecarEvent{kind: eventError, err: err}
	}
	events <- sidecarEvent{kind: eventTerminated, state: proc.cmd.ProcessState}

	<-drained
	close(events)
}

func scanLines(r io.ReadCloser, kind sidecarEventKind, events chan<- sidecarEvent, wg *sync.WaitGroup) {
	defer wg.Done()
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOutputLine)
	for scanner.Scan() {
		events <- sidecarEvent{kind: kind, line: strings.ToValidUTF8(scanner.Text(), "\uFFFD")}
	}
	if err := scanner.Err(); err != nil && !stderrors.Is(err, os.ErrClosed) {
		events <- sidecarEvent{kind: eventError, err: err}
		// Keep the pipe drained so the child never blocks on a full buffer
		_, _ = io.Copy(io.Discard, r)
	}
}

// drain logs every event of proc and releases its handle on termination
func (s *SidecarSupervisor) drain(proc *sidecarProcess, events <-chan sidecarEvent) {
	defer close(proc.done)

	for event := range events {
		switch event.kind {
		case eventStdout:
			s.logger.Info("[backend] "+event.line, "run_id", proc.runID)
		case eventStderr:
			s.logger.Warn("[backend] "+event.line, "run_id", proc.runID)
		case eventError:
			s.logger.Error("[backend] Error: "+event.err.Error(), "run_id", proc.runID)
		case eventTerminated:
			fields := []interface{}{"run_id", proc.runID, "code", exitCode(event.state)}
			if signal, ok := platform.TerminationSignal(event.state); ok {
				fields = append(fields, "signal", signal)
			}
			s.logger.Info("[backend] Terminated", fields...)
			s.clearIfCurrent(proc)
			close(proc.exited)
		}
	}
}

// clearIfCurrent drops the handle only if it still refers to proc
func (s *SidecarSupervisor) clearIfCurrent(proc *sidecarProcess) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == proc {
		s.current = nil
	}
}

func exitCode(state *os.ProcessState) int {
	if state == nil {
		return -1
	}
	return state.ExitCode()
}

// Stop kills the running backend together with its descendants. It is a
// no-op when nothing runs and does not wait for the process to exit.
func (s *SidecarSupervisor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proc := s.current
	if proc == nil {
		return nil
	}
	s.current = nil

	s.logger.Info("Stopping backend sidecar...", "pid", proc.cmd.Process.Pid, "run_id", proc.runID)

	if err := s.controller.KillTree(proc.cmd); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		wrapped := errors.WrapKillError("stop_sidecar", proc.cmd.Process.Pid, err)
		logging.LogError(s.logger, wrapped, "stop_sidecar", map[string]interface{}{"run_id": proc.runID})
		return wrapped
	}
	return nil
}

// IsRunning reports whether a backend handle is held
func (s *SidecarSupervisor) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Status returns a snapshot of the supervised process
func (s *SidecarSupervisor) Status() types.SidecarStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return types.SidecarStatus{Running: false}
	}
	startedAt := s.current.startedAt
	return types.SidecarStatus{
		Running:   true,
		PID:       s.current.cmd.Process.Pid,
		RunID:     s.current.runID,
		StartedAt: &startedAt,
	}
}
