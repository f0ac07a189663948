package upgrade

import (
	"context"

	"github.com/aptpac/aptpac/config"
	"github.com/aptpac/aptpac/internal/flows"
	"github.com/aptpac/aptpac/internal/ui"
	"github.com/spf13/cobra"
)

func NewUpgradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Rebuild installed AUR packages that have a newer AUR version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := executeUpgradeFlow(cmd.Context())
			if err != nil {
				ui.ErrorExit(err)
			}

			return nil
		},
	}
}

func executeUpgradeFlow(ctx context.Context) error {
	flow, err := flows.Install(config.Get())
	if err != nil {
		ui.Fatalf("Failed to create upgrade flow: %s", err)
	}

	ui.SetStatus("Checking for AUR updates")
	updates, err := flow.CheckUpdates(ctx)
	ui.ClearStatus()

	if err != nil {
		return err
	}

	if len(updates) == 0 {
		ui.Statusln("All AUR packages are up to date.")
		return nil
	}

	ui.UpdatesSummary(updates)

	names := make([]string, 0, len(updates))
	for _, update := range updates {
		names = append(names, update.Name)
	}

	return flow.Run(ctx, names)
}
