// Package builder turns a resolved AUR build queue into built and installed
// packages. All external effects (git, makepkg, pacman) go through
// CommandRunner so the orchestration logic stays testable.
package builder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/safedep/dry/log"
)

// CommandRunner executes external commands on behalf of the builder.
type CommandRunner interface {
	// Run executes a command with the caller's stdio attached, so the user
	// sees build and install output live.
	Run(ctx context.Context, dir string, exe string, args ...string) error

	// RunQuiet executes a command with output captured. The captured output
	// is included in the returned error on failure and discarded otherwise.
	RunQuiet(ctx context.Context, dir string, exe string, args ...string) error
}

type execRunner struct{}

// NewExecRunner returns the CommandRunner used in production, backed by
// os/exec.
func NewExecRunner() CommandRunner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, dir string, exe string, args ...string) error {
	log.Debugf("running command: %s %v (dir=%s)", exe, args, dir)

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func (r *execRunner) RunQuiet(ctx context.Context, dir string, exe string, args ...string) error {
	log.Debugf("running command quietly: %s %v (dir=%s)", exe, args, dir)

	var output bytes.Buffer

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = dir
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w\n%s", exe, err, output.String())
	}

	return nil
}
