package process_test

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/streamscribe/process"
)

func TestRunEcho(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "echo",
		Args:   []string{"hello", "world"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	if out := strings.TrimSpace(string(result.Stdout)); out != "hello world" {
		t.Fatalf("expected 'hello world', got %q", out)
	}
}

func TestRunStdinAndEnv(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "cat; echo \" $MY_TEST_VAR\""},
		Env:    []string{"MY_TEST_VAR=hello123"},
		Stdin:  strings.NewReader("from stdin"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := strings.TrimSpace(string(result.Stdout)); out != "from stdin hello123" {
		t.Fatalf("unexpected stdout %q", out)
	}
}

func TestRunExitCodeAndStderr(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo oops >&2; exit 42"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 42 {
		t.Fatalf("expected exit code 42, got %d", result.ExitCode)
	}
	if stderr := strings.TrimSpace(string(result.Stderr)); stderr != "oops" {
		t.Fatalf("expected 'oops' on stderr, got %q", stderr)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error from context cancellation")
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to kill: %v", result.Duration)
	}
}

func TestRunEmptyBinary(t *testing.T) {
	if _, err := process.Run(context.Background(), process.Command{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestRunMissingBinary(t *testing.T) {
	if _, err := process.Run(context.Background(), process.Command{Binary: "definitely-not-a-binary-xyz"}); err == nil {
		t.Fatal("expected start error for missing binary")
	}
}

func TestStartStreamsLines(t *testing.T) {
	s, err := process.Start(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo one; echo two; echo three"},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	var lines []string
	scanner := bufio.NewScanner(s.Stdout())
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	result, err := s.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if strings.Join(lines, ",") != "one,two,three" {
		t.Errorf("lines = %v", lines)
	}
	if result.ExitCode != 0 || result.Stdout != nil {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestStreamCloseKillsProcess(t *testing.T) {
	s, err := process.Start(context.Background(), process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Close did not terminate the process")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
