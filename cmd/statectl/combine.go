package main

import (
	"github.com/spf13/cobra"

	"github.com/danmuck/statectl/internal/statefile"
)

var combineCmd = &cobra.Command{
	Use:   "combine FIRST SECOND [MORE...]",
	Short: "Merge full state documents into one, left to right",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		combined, err := statefile.Load(args[0])
		if err != nil {
			return err
		}
		for _, path := range args[1:] {
			next, err := statefile.Load(path)
			if err != nil {
				return err
			}
			combined, err = combined.Combine(next)
			if err != nil {
				return err
			}
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		return statefile.Save(output, combined)
	},
}

func init() {
	combineCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")
}
