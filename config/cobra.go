package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ApplyCobraFlags applies the cobra flags to the command.
// These flags are local concern of the config package. This helper function is used
// to bind them to the Cobra command.
func ApplyCobraFlags(cmd *cobra.Command) {
	applyFlags(cmd.PersistentFlags())
}

func applyFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&globalConfig.DryRun, "dry-run", false,
		"Resolve and print the transaction without building or installing")
	fs.BoolVarP(&globalConfig.AutoConfirm, "yes", "y", false,
		"Assume yes to all confirmation prompts")
	fs.StringVar(&globalConfig.Config.BuildUser, "build-user",
		globalConfig.Config.BuildUser, "User to run makepkg as when invoked as root")
	fs.StringVar(&globalConfig.Config.PrivilegeTool, "privilege-tool",
		globalConfig.Config.PrivilegeTool, "Tool used to drop privileges for builds (auto, run0, doas, sudo)")
}
