package main

import (
	"fmt"
	"os"

	"github.com/aptpac/aptpac/cmd/install"
	"github.com/aptpac/aptpac/cmd/search"
	"github.com/aptpac/aptpac/cmd/setup"
	"github.com/aptpac/aptpac/cmd/upgrade"
	"github.com/aptpac/aptpac/cmd/version"
	"github.com/aptpac/aptpac/config"
	"github.com/aptpac/aptpac/internal/eventlog"
	"github.com/safedep/dry/log"
	"github.com/spf13/cobra"
)

var debug bool

func main() {
	cmd := &cobra.Command{
		Use:              "apt-pac",
		Short:            "apt-style AUR helper for pacman",
		TraverseChildren: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				os.Setenv("APP_LOG_LEVEL", "debug")
			}

			log.InitZapLogger("apt-pac")

			cfg := config.Get()
			if !cfg.Config.SkipEventLogging {
				if err := eventlog.Initialize(cfg.EventLogDir(), cfg.Config.EventLogRetentionDays); err != nil {
					log.Warnf("Failed to initialize event log: %v", err)
				}
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}

			return fmt.Errorf("apt-pac: %s is not a valid command", args[0])
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	config.ApplyCobraFlags(cmd)

	cmd.AddCommand(install.NewInstallCommand())
	cmd.AddCommand(search.NewSearchCommand())
	cmd.AddCommand(upgrade.NewUpgradeCommand())
	cmd.AddCommand(setup.NewSetupCommand())
	cmd.AddCommand(version.NewVersionCommand())

	err := cmd.Execute()
	eventlog.Close()

	if err != nil {
		os.Exit(1)
	}
}
