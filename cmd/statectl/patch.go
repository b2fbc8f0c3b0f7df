package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/statectl/internal/providers"
)

var patchCmd = &cobra.Command{
	Use:   "patch TARGET LIST_DIFF",
	Short: "Apply a serialized content diff to a file and print the result",
	Long: `Apply LIST_DIFF, a JSON-encoded list diff as emitted inside rendered
commands, to the lines of TARGET and print the patched content. The target
file itself is not modified.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := strings.Trim(args[0], `"`)
		raw, err := os.ReadFile(providers.ExpandUser(target))
		if err != nil {
			return err
		}
		patched, err := providers.ApplyListPatch(string(raw), args[1])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), patched)
		return nil
	},
}
