package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the configured providers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry(cmd)
		if err != nil {
			return err
		}
		name := color.New(color.Bold)
		fmt.Fprintln(cmd.OutOrStdout(), "gatherers:")
		for _, n := range registry.GathererNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name.Sprint(n))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "renderers:")
		for _, n := range registry.RendererNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name.Sprint(n))
		}
		return nil
	},
}
