package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danmuck/statectl/internal/statefile"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check that a state document is well formed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := statefile.Load(args[0])
		if err != nil {
			return err
		}
		if err := system.Validate(); err != nil {
			return err
		}
		kind := "full"
		if system.IsDiff() {
			kind = "diff"
		}
		ok := color.New(color.FgGreen).Sprint("ok")
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s document, %d components\n", ok, kind, len(system.Components))
		return nil
	},
}
