package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"captioner/internal/command"
)

// DefaultCheckTimeout bounds a single trial run.
const DefaultCheckTimeout = 20 * time.Second

// Requirement describes an executable captioner invokes.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool

	// CheckArgs are run after the binary resolves. A failed run marks the
	// requirement unavailable; the first output line is kept as its version.
	CheckArgs []string

	// Hint is appended to the detail when the trial run fails.
	Hint string
}

// Status reports whether a requirement resolved and started.
type Status struct {
	Requirement
	Path      string
	Version   string
	Available bool
	Detail    string
}

// Checker resolves requirements on PATH and runs them once.
type Checker struct {
	lookPath func(string) (string, error)
	output   command.OutputRunner
	timeout  time.Duration
}

// Option customizes a Checker.
type Option func(*Checker)

// WithOutputRunner overrides how trial runs are executed.
func WithOutputRunner(runner command.OutputRunner) Option {
	return func(c *Checker) {
		if runner != nil {
			c.output = runner
		}
	}
}

// WithLookPath overrides executable resolution.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(c *Checker) {
		if fn != nil {
			c.lookPath = fn
		}
	}
}

// WithCheckTimeout overrides DefaultCheckTimeout.
func WithCheckTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewChecker returns a Checker backed by exec.LookPath and command.Output.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		lookPath: exec.LookPath,
		output:   command.Output,
		timeout:  DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check evaluates each requirement in order.
func (c *Checker) Check(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, c.check(ctx, req))
	}
	return results
}

func (c *Checker) check(ctx context.Context, req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := c.lookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Path = path
	if len(req.CheckArgs) == 0 {
		status.Available = true
		return status
	}

	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	out, err := c.output(checkCtx, path, req.CheckArgs...)
	if err != nil {
		status.Detail = fmt.Sprintf("%s %s failed: %s", req.Command, strings.Join(req.CheckArgs, " "), failureReason(out, err))
		if req.Hint != "" {
			status.Detail += "; " + req.Hint
		}
		return status
	}
	status.Available = true
	status.Version = firstLine(out)
	return status
}

func failureReason(out string, err error) string {
	switch {
	case command.IsTimeout(err):
		return "timed out"
	case firstLine(out) != "":
		return firstLine(out)
	default:
		return err.Error()
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
