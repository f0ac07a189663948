package setup

import (
	"fmt"

	"github.com/aptpac/aptpac/config"
	"github.com/aptpac/aptpac/internal/ui"
	"github.com/spf13/cobra"
)

func NewSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Write the default apt-pac config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplateConfig(); err != nil {
				return fmt.Errorf("failed to write template config: %w", err)
			}

			ui.Successf("Config written to %s", config.Get().ConfigFilePath())
			return nil
		},
	}
}
