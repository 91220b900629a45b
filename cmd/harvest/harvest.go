// Package harvest implements the one-shot harvesting command.
package harvest

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsharvest/cmd/common"
	"github.com/jonesrussell/newsharvest/internal/domain"
	"github.com/jonesrussell/newsharvest/internal/pipeline"
)

// Command returns the harvest command.
func Command() *cobra.Command {
	var listing string

	cmd := &cobra.Command{
		Use:   "harvest [urls...]",
		Short: "Run one harvesting pass over article URLs or a listing page",
		Long: `Run the crawl-dedupe-persist pipeline once.

Given article URLs, each is fetched, extracted, and persisted unless its
normalized form is already stored. Given a listing page (--listing, or a
single search URL), article links are discovered first and the next-page
link is persisted before any article is processed. Pagination is one page
per run; rerun with the printed next link to continue.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, listing)
		},
	}

	cmd.Flags().StringVar(&listing, "listing", "", "listing page URL (paginated mode)")

	return cmd
}

// run executes one pipeline pass and prints the report.
func run(cmd *cobra.Command, args []string, listing string) error {
	if listing == "" && len(args) == 0 {
		return errors.New("provide article URLs or --listing")
	}

	deps, depsErr := common.New()
	if depsErr != nil {
		return depsErr
	}

	st := deps.OpenStore()

	emit := func(msg string) { fmt.Fprintln(cmd.OutOrStdout(), msg) }
	pl, plErr := deps.NewPipeline(st, emit)
	if plErr != nil {
		return plErr
	}

	ctx := cmd.Context()

	// A single search URL is treated as a listing, matching --listing.
	if listing == "" && len(args) == 1 && pipeline.IsListing(args[0]) {
		listing = args[0]
		args = nil
	}

	var report domain.RunReport
	if listing != "" {
		report = pl.HarvestListing(ctx, listing)
	} else {
		report = pl.ProcessURLs(ctx, args)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Done: %d processed, %d skipped, %d failed\n",
		report.Processed, report.Skipped, report.Failed)

	if report.NextLink != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Next link available: %s\n", report.NextLink)
		fmt.Fprintln(cmd.OutOrStdout(), "Run the command again with the next link to continue.")
	}

	return nil
}
