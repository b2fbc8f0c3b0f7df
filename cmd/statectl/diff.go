package main

import (
	"github.com/spf13/cobra"

	"github.com/danmuck/statectl/internal/statefile"
)

var diffCmd = &cobra.Command{
	Use:   "diff ACTUAL DESIRED",
	Short: "Compute the diff that transforms ACTUAL into DESIRED",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		actual, err := statefile.Load(args[0])
		if err != nil {
			return err
		}
		desired, err := statefile.Load(args[1])
		if err != nil {
			return err
		}
		diff, err := actual.Diff(desired)
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		return statefile.Save(output, diff)
	},
}

func init() {
	diffCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")
}
