package execsrvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// Run executes one adapter-built command as an isolated child process.
// It enforces the wall-clock deadline by killing the whole process
// group, caps captured stdout/stderr, and reports a terminal outcome.
// Cancelling ctx terminates the process and returns ctx's error; no
// partial result is reported in that case.
//
// Isolation is best-effort: the working directory is restricted to the
// staged execution directory and the environment is the caller's
// scrubbed allow-list. It is not a defense against malicious code.
func Run(ctx context.Context, spec RunSpec) (RunResult, error) {
	if err := validateRunSpec(spec); err != nil {
		return RunResult{}, err
	}

	limit := spec.OutputLimitKiB
	if limit <= 0 {
		limit = defaultOutputLimitKiB
	}
	stdout := newCappedWriter(limit * 1024)
	stderr := newCappedWriter(limit * 1024)

	cmd := exec.Command(spec.Cmd[0], spec.Cmd[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if spec.StdinPath != "" {
		stdin, err := os.Open(spec.StdinPath)
		if err != nil {
			return RunResult{}, fmt.Errorf("failed to open stdin fixture: %w", err)
		}
		defer stdin.Close()
		cmd.Stdin = stdin
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return RunResult{}, fmt.Errorf("failed to start process: %w", err)
	}

	var timedOut atomic.Bool
	done := make(chan struct{})
	go func() {
		var wallTimer <-chan time.Time
		if spec.WallTimeMs > 0 {
			wallTimer = time.After(time.Duration(spec.WallTimeMs) * time.Millisecond)
		}
		select {
		case <-ctx.Done():
			killProcessGroup(cmd.Process.Pid)
		case <-wallTimer:
			timedOut.Store(true)
			killProcessGroup(cmd.Process.Pid)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)
	wallMs := time.Since(start).Milliseconds()

	if ctx.Err() != nil && !timedOut.Load() {
		return RunResult{}, ctx.Err()
	}

	res := RunResult{
		ExitCode: exitCodeFromErr(waitErr, cmd.ProcessState),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		WallMs:   wallMs,
	}

	switch {
	case timedOut.Load():
		res.Outcome = OutcomeTimedOut
	case res.ExitCode != 0:
		res.Outcome = OutcomeCrashed
	case stdout.Truncated() || stderr.Truncated():
		res.Outcome = OutcomeOutputTruncated
	default:
		res.Outcome = OutcomeCompleted
	}
	return res, nil
}

// ScrubEnv builds a child environment from the parent's, keeping only
// the allow-listed variables plus explicit extra entries.
func ScrubEnv(allowList []string, extra map[string]string) []string {
	allowed := make(map[string]bool, len(allowList))
	for _, name := range allowList {
		allowed[name] = true
	}
	env := []string{}
	for _, entry := range os.Environ() {
		name, _, ok := strings.Cut(entry, "=")
		if ok && allowed[name] {
			env = append(env, entry)
		}
	}
	for name, value := range extra {
		env = append(env, name+"="+value)
	}
	return env
}

func validateRunSpec(spec RunSpec) error {
	if len(spec.Cmd) == 0 {
		return fmt.Errorf("command is required")
	}
	if spec.Dir == "" {
		return fmt.Errorf("execution directory is required")
	}
	return nil
}

// the process was started with Setpgid, so the negative pid reaches
// the whole tree including grandchildren
func killProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

func exitCodeFromErr(err error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// cappedWriter keeps at most limit bytes and remembers whether more
// arrived. Writing past the cap succeeds so the child is never blocked
// or failed by its own chatter.
type cappedWriter struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCappedWriter(limit int) *cappedWriter {
	return &cappedWriter{limit: limit}
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	remain := w.limit - w.buf.Len()
	if remain <= 0 {
		w.truncated = true
		return len(p), nil
	}
	if len(p) > remain {
		w.buf.Write(p[:remain])
		w.truncated = true
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}

func (w *cappedWriter) Bytes() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	return out
}

func (w *cappedWriter) Truncated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.truncated
}
