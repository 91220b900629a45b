// Package links implements the link-extraction command.
package links

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsharvest/cmd/common"
)

// Command returns the links command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "links URL",
		Short: "Extract article links and the next-page link from a listing page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, depsErr := common.New()
			if depsErr != nil {
				return depsErr
			}

			pl, plErr := deps.NewPipeline(deps.OpenStore(), nil)
			if plErr != nil {
				return plErr
			}

			links, nextLink, err := pl.ExtractLinks(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("extract links: %w", err)
			}

			for _, link := range links {
				fmt.Fprintln(cmd.OutOrStdout(), link)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d links.\n", len(links))
			if nextLink != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Next page: %s\n", nextLink)
			}

			return nil
		},
	}
}
