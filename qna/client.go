// Package qna drives the external question-and-answer evaluator as a
// child process: a query in on stdin, captured stdout and stderr and a
// wall-clock measurement out.
package qna

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// ErrTimeout reports that the evaluator exceeded the per-query time
// limit and was killed.
var ErrTimeout = errors.New("qna: evaluation timed out")

// waitDelay bounds how long Wait may keep draining output pipes after
// the process group is gone.
const waitDelay = 250 * time.Millisecond

// Client launches the qna binary once per query. A zero Timeout means
// no limit.
type Client struct {
	Path      string
	Timeout   time.Duration
	ShowTypes bool
}

// Result is the raw outcome of one invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Elapsed  time.Duration
}

// Check verifies that the configured evaluator can be run at all.
func (c *Client) Check() error {
	if c.Path == "" {
		return errors.New("qna: no evaluator configured")
	}
	if _, err := exec.LookPath(c.Path); err != nil {
		return fmt.Errorf("qna: %w", err)
	}
	return nil
}

// Invoke runs one query through the evaluator. The query goes to stdin
// followed by a newline, the way qna reads its input. A non-zero exit
// is not an error here, the caller classifies the output; errors are
// reserved for failing to run at all and for timeouts.
func (c *Client) Invoke(query string) (*Result, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var args []string
	if c.ShowTypes {
		args = append(args, "-showtypes")
	}
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdin = strings.NewReader(query + "\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// The evaluator may shell out, and a killed parent leaves such
	// grandchildren holding the output pipes, which would block Wait
	// until they exit on their own. Run the evaluator in its own
	// process group, take the whole group down on expiry and let
	// WaitDelay force the pipes closed.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}
	if ctx.Err() == context.DeadlineExceeded {
		res.ExitCode = -1
		return res, fmt.Errorf("%w after %s", ErrTimeout, c.Timeout)
	}
	if err != nil {
		var exit *exec.ExitError
		if !errors.As(err, &exit) {
			return nil, fmt.Errorf("qna: run %s: %w", c.Path, err)
		}
		res.ExitCode = exit.ExitCode()
	}
	return res, nil
}
