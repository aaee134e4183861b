// Package command runs external engine processes and reports abnormal
// termination as structured failures.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// stderrTail bounds how much stderr a Failure carries into job error detail.
const stderrTail = 2048

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env entries (KEY=VALUE) appended to the daemon environment.
	Env []string
}

// String renders the command line for logs and error detail.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			arg = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Result captures the output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts process execution so adapters can be tested with fakes.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (Result, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

// Failure reports an engine that could not start or exited non-zero.
type Failure struct {
	Engine   string
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	msg := fmt.Sprintf("%s failed (exit=%d)", f.Engine, f.ExitCode)
	if detail := lastLine(f.Stderr); detail != "" {
		msg += ": " + detail
	} else if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// ExecRunner executes commands via os/exec.
type ExecRunner struct{}

// Run executes one command, capturing stdout, stderr, and the exit code.
// Any start failure or non-zero exit is returned as *Failure.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) //nolint:gosec
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}
	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return result, &Failure{
		Engine:   c.Name,
		Command:  c.String(),
		ExitCode: result.ExitCode,
		Stderr:   tail(result.Stderr, stderrTail),
		Err:      err,
	}
}

// Default returns runner when non-nil, otherwise an ExecRunner.
func Default(runner Runner) Runner {
	if runner == nil {
		return ExecRunner{}
	}
	return runner
}

// AsFailure converts err into a *Failure, synthesising one when a runner
// returned a plain error.
func AsFailure(engine string, c Command, res Result, err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		if failure.Engine == "" {
			failure.Engine = engine
		}
		return failure
	}
	return &Failure{
		Engine:   engine,
		Command:  c.String(),
		ExitCode: res.ExitCode,
		Stderr:   tail(res.Stderr, stderrTail),
		Err:      err,
	}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}
