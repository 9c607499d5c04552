package qna

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qna")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvokeCapturesOutput(t *testing.T) {
	c := &Client{Path: writeScript(t, `cat >/dev/null
echo "Q: A: hello"
echo "T: 70000"`)}
	res, err := c.Invoke("greeting of world")
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code %d", res.ExitCode)
	}
	if !strings.Contains(res.Stdout, "A: hello") || !strings.Contains(res.Stdout, "T: 70000") {
		t.Errorf("stdout %q", res.Stdout)
	}
	if res.Elapsed <= 0 {
		t.Errorf("elapsed %s", res.Elapsed)
	}
}

func TestInvokeSendsQueryOnStdin(t *testing.T) {
	c := &Client{Path: writeScript(t, `read line
echo "A: $line"`)}
	res, err := c.Invoke("version of it")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Stdout, "A: version of it") {
		t.Errorf("stdout %q", res.Stdout)
	}
}

func TestInvokeExitCode(t *testing.T) {
	c := &Client{Path: writeScript(t, "exit 3")}
	res, err := c.Invoke("x")
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code %d, want 3", res.ExitCode)
	}
}

func TestInvokeTimeout(t *testing.T) {
	c := &Client{
		Path:    writeScript(t, "sleep 10"),
		Timeout: 50 * time.Millisecond,
	}
	start := time.Now()
	_, err := c.Invoke("x")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error %v, want timeout", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout did not kill the evaluator")
	}
}

func TestInvokeTimeoutWithForkedChild(t *testing.T) {
	// The script hands its output pipe to a long-lived child. Killing
	// the evaluator must take the whole group with it instead of
	// waiting for the grandchild to let go of the pipe.
	c := &Client{
		Path:    writeScript(t, "sleep 10 &\nwait"),
		Timeout: 50 * time.Millisecond,
	}
	start := time.Now()
	_, err := c.Invoke("x")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error %v, want timeout", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("grandchild held the invocation open past the timeout")
	}
}

func TestInvokeMissingBinary(t *testing.T) {
	c := &Client{Path: filepath.Join(t.TempDir(), "nope")}
	if _, err := c.Invoke("x"); err == nil {
		t.Error("no error for a missing evaluator")
	}
}

func TestCheck(t *testing.T) {
	if err := (&Client{}).Check(); err == nil {
		t.Error("no error for an unconfigured evaluator")
	}
	c := &Client{Path: writeScript(t, "exit 0")}
	if err := c.Check(); err != nil {
		t.Errorf("healthy evaluator failed check: %v", err)
	}
}
