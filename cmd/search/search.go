package search

import (
	"context"

	"github.com/aptpac/aptpac/config"
	"github.com/aptpac/aptpac/internal/flows"
	"github.com/aptpac/aptpac/internal/ui"
	"github.com/spf13/cobra"
)

func NewSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the AUR by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := executeSearchFlow(cmd.Context(), args[0])
			if err != nil {
				ui.ErrorExit(err)
			}

			return nil
		},
	}
}

func executeSearchFlow(ctx context.Context, query string) error {
	flow, err := flows.Install(config.Get())
	if err != nil {
		ui.Fatalf("Failed to create search flow: %s", err)
	}

	results, err := flow.Search(ctx, query)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		ui.Statusln("No packages found.")
		return nil
	}

	ui.SearchResults(results)
	return nil
}
