package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result captures one generator run: output streams and the process exit
// code. Exit code 0 is success; 1 is the generator's code for an invalid
// option or a failed dependency step.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the generator exited cleanly.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes generator invocations as child processes.
type Runner struct {
	// WorkDir is the directory the generator runs in. The generator
	// resolves its part cache and output tree relative to it.
	WorkDir string
}

// NewRunner creates a Runner rooted at workDir.
func NewRunner(workDir string) *Runner {
	return &Runner{WorkDir: workDir}
}

// Run executes the invocation and waits for it to finish. A non-zero exit
// is not an error here: the caller gets the Result and decides. An error is
// returned only when the process could not be started or the context was
// canceled.
func (r *Runner) Run(ctx context.Context, inv *Invocation) (*Result, error) {
	if inv == nil {
		return nil, fmt.Errorf("invocation is nil")
	}

	cmd := exec.CommandContext(ctx, inv.GeneratorPath, inv.Args()...)
	cmd.Dir = r.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, fmt.Errorf("generator interrupted: %w", ctxErr)
			}
			return result, nil
		}
		return nil, fmt.Errorf("failed to run generator %s: %w", inv.GeneratorPath, err)
	}

	return result, nil
}
