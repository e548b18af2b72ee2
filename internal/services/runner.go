package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command describes a single external tool invocation.
type Command struct {
	Name string
	Args []string
	// Env entries are appended to the current process environment.
	Env []string
	Dir string
}

// String renders the command line for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// Runner executes external commands. Implementations return the combined
// stdout/stderr output so failures can be reported with the tool's message.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) ([]byte, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) ([]byte, error) {
	return f(ctx, cmd)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run executes the command and waits for it to finish.
func (ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, Wrap(ErrConfiguration, "", "exec", "empty command", nil)
	}
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) //nolint:gosec
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", c.Name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}
