package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Stream is a started subprocess whose stdout is read incrementally.
type Stream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	ctx    context.Context
	cancel context.CancelFunc
	start  time.Time

	waitOnce sync.Once
	result   *Result
	err      error
}

// Start launches cmd. The caller reads Stdout until EOF and then calls
// Wait, or calls Close to abandon the process.
func Start(ctx context.Context, cmd Command) (*Stream, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}
	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = DefaultGracePeriod
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{ctx: ctx, cancel: cancel}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.Stdin = cmd.Stdin
	c.Stderr = &s.stderr

	// Own process group so the whole tree is signalled.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod

	stdout, err := c.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}
	if err := c.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("process: start %s: %w", cmd.Binary, err)
	}

	s.cmd = c
	s.stdout = stdout
	s.start = time.Now()
	return s, nil
}

// Stdout returns the process standard output.
func (s *Stream) Stdout() io.Reader { return s.stdout }

// Wait waits for exit and returns the result. It must only be called once
// Stdout has been read to EOF (or abandoned through Close).
func (s *Stream) Wait() (*Result, error) {
	s.waitOnce.Do(func() {
		err := s.cmd.Wait()
		s.result = &Result{
			Stderr:   s.stderr.Bytes(),
			ExitCode: s.cmd.ProcessState.ExitCode(),
			Duration: time.Since(s.start),
		}
		switch {
		case err == nil:
		case s.ctx.Err() != nil:
			s.err = fmt.Errorf("process: killed by context: %w", s.ctx.Err())
		default:
			s.err = fmt.Errorf("process: exit code %d: %w", s.result.ExitCode, err)
		}
		s.cancel()
	})
	return s.result, s.err
}

// Close terminates the process if it is still running and reaps it.
func (s *Stream) Close() error {
	s.cancel()
	_, _ = s.Wait()
	return nil
}

// Run executes a subprocess and buffers its output.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	s, err := Start(ctx, cmd)
	if err != nil {
		return nil, err
	}
	stdout, readErr := io.ReadAll(s.stdout)
	result, err := s.Wait()
	result.Stdout = stdout
	if err == nil && readErr != nil {
		err = fmt.Errorf("process: read stdout: %w", readErr)
	}
	return result, err
}

func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	return append(os.Environ(), extra...)
}
