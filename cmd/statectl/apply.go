package main

import (
	"github.com/spf13/cobra"

	"github.com/danmuck/statectl/internal/statefile"
)

var applyCmd = &cobra.Command{
	Use:   "apply STATE DIFF",
	Short: "Replay a diff document against a full state document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := statefile.Load(args[0])
		if err != nil {
			return err
		}
		diff, err := statefile.Load(args[1])
		if err != nil {
			return err
		}
		applied, err := state.Apply(diff)
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		return statefile.Save(output, applied)
	},
}

func init() {
	applyCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")
}
