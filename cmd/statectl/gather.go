package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/danmuck/statectl/internal/components"
	"github.com/danmuck/statectl/internal/providers"
	"github.com/danmuck/statectl/internal/statefile"
	"github.com/danmuck/statectl/internal/systems"
)

var gatherCmd = &cobra.Command{
	Use:   "gather PROVIDER",
	Short: "Capture local machine state for a provider, or for all of them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry(cmd)
		if err != nil {
			return err
		}
		qualifier, err := cmd.Flags().GetStringSlice("qualifier")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		names := []string{args[0]}
		if args[0] == "all" {
			names = registry.GathererNames()
		}

		results := make([]*components.Component, len(names))
		var group errgroup.Group
		for i, name := range names {
			i, name := i, name
			group.Go(func() error {
				gatherer, err := registry.Gatherer(name)
				if err != nil {
					return err
				}
				log.Debug().Str("provider", name).Msg("gathering")
				c, err := gatherer.Gather(qualifier)
				if err != nil {
					return err
				}
				results[i] = c
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}

		system := systems.New(results...)
		providers.MarkAutoDependencies(system)
		if err := system.Validate(); err != nil {
			return err
		}
		return statefile.Save(output, system)
	},
}

func init() {
	gatherCmd.Flags().StringSlice("qualifier", nil, "qualifier segments for the gathered components")
	gatherCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")
}
