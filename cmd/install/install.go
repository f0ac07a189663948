package install

import (
	"context"
	"errors"

	"github.com/aptpac/aptpac/aur"
	"github.com/aptpac/aptpac/config"
	"github.com/aptpac/aptpac/internal/flows"
	"github.com/aptpac/aptpac/internal/ui"
	"github.com/spf13/cobra"
)

func NewInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package>...",
		Short: "Build and install AUR packages with their dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := executeInstallFlow(cmd.Context(), args)
			if err != nil {
				exitInstallError(err)
			}

			return nil
		},
	}
}

func executeInstallFlow(ctx context.Context, packages []string) error {
	flow, err := flows.Install(config.Get())
	if err != nil {
		ui.Fatalf("Failed to create install flow: %s", err)
	}

	return flow.Run(ctx, packages)
}

// exitInstallError renders install failures and terminates. Dependency cycles
// get a dedicated rendering since the cycle path is the useful part.
func exitInstallError(err error) {
	var cycleErr *aur.CyclicDependencyError
	if errors.As(err, &cycleErr) {
		ui.StopSpinner()
		ui.Warnf("E: Dependency cycle detected:")

		for i, name := range cycleErr.Cycle {
			prefix := "   "
			if i > 0 {
				prefix = "   → "
			}
			ui.Statusln(prefix + name)
		}

		ui.Fatalf("Break the cycle by installing one of these packages manually first.")
	}

	ui.ErrorExit(err)
}
