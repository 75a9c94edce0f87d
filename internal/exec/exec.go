package exec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExecutionResult holds the outcome of a command execution.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor defines an interface for running external commands.
// This allows for mocking in tests.
type Executor interface {
	Run(ctx context.Context, command string, args ...string) (*ExecutionResult, error)
}

// CommandExecutor is a concrete implementation of the Executor interface
// that runs actual commands on the host system.
type CommandExecutor struct {
	// Dir is the working directory of started commands. Empty means the
	// current directory.
	Dir string
}

// NewCommandExecutor creates a new CommandExecutor.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// Run executes the given command and returns its result.
func (e *CommandExecutor) Run(ctx context.Context, command string, args ...string) (*ExecutionResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = e.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// cmd.Run() returns an error for non-zero exit codes, but we handle
	// the exit code explicitly. So, we only return other kinds of errors
	// (e.g., command not found, context cancelled).
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok || ctx.Err() != nil {
			return nil, err
		}
	}

	return &ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

// GitDiff returns the unified diff between rev and the working tree,
// optionally limited to paths. File names in the diff carry no a/ b/
// prefixes, so they are relative to the repository root.
func GitDiff(ctx context.Context, e Executor, rev string, paths ...string) ([]byte, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff", "--no-prefix", rev}
	if len(paths) > 0 {
		args = append(append(args, "--"), paths...)
	}

	result, err := e.Run(ctx, "git", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run git diff: %w", err)
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("git diff %s exited with code %d: %s",
			rev, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return []byte(result.Stdout), nil
}
