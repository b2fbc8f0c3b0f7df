package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/statectl/internal/shell"
	"github.com/danmuck/statectl/internal/statefile"
	"github.com/danmuck/statectl/internal/systems"
)

var commandsCmd = &cobra.Command{
	Use:   "commands DIFF",
	Short: "Render a diff document as the commands that realize it",
	Long: `Render a diff document as shell commands, in dependency order. The
output is meant for review before running; nothing is executed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry(cmd)
		if err != nil {
			return err
		}
		diff, err := statefile.Load(args[0])
		if err != nil {
			return err
		}
		if !diff.IsDiff() {
			return fmt.Errorf("%s is not a diff document", args[0])
		}

		ordered, err := diff.InOrder()
		if err != nil {
			return err
		}

		header := color.New(color.FgCyan)
		for _, component := range ordered {
			if component.Name == systems.RemovalName {
				log.Warn().Str("component", component.Key().String()).
					Msg("component removal has no command rendering")
				continue
			}
			renderer, err := registry.Renderer(component.Name)
			if err != nil {
				return err
			}
			commands, err := renderer.Commands(component)
			if err != nil {
				return err
			}
			if len(commands) == 0 {
				continue
			}
			header.Fprintf(cmd.OutOrStdout(), "# %s\n", component.Key())
			for _, argv := range commands {
				fmt.Fprintln(cmd.OutOrStdout(), shell.Join(argv))
			}
		}
		return nil
	},
}
