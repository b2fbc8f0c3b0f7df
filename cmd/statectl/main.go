package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/danmuck/statectl/internal/config"
	"github.com/danmuck/statectl/internal/logging"
	"github.com/danmuck/statectl/internal/providers"
	"github.com/danmuck/statectl/internal/shell"
)

var rootCmd = &cobra.Command{
	Use:   "statectl",
	Short: "Differential configuration management",
	Long: `statectl captures machine state as diffable documents: gather the
local state, diff it against a desired state, and render the diff as the
commands that close the gap.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.ConfigureRuntime()
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			logging.SetLevel(level)
		}
	},
}

func main() {
	rootCmd.AddCommand(gatherCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(patchCmd)

	rootCmd.PersistentFlags().StringSlice("config", nil, "extra provider config files")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace|debug|info|warn|error|disabled)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRegistry builds the provider registry from the builtin wiring, the
// default config paths and any --config files.
func loadRegistry(cmd *cobra.Command) (*providers.Registry, error) {
	paths, err := cmd.Flags().GetStringSlice("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	return cfg.Registry(shell.ExecRunner{}), nil
}
