// Package docs implements commands for inspecting the stored documents.
package docs

import "github.com/spf13/cobra"

// Command returns the docs parent command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Inspect the persisted document store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(listCommand())

	return cmd
}
