// Package schedule implements the recurring harvest command.
package schedule

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsharvest/cmd/common"
)

// defaultCronSpec harvests one listing page every six hours.
const defaultCronSpec = "0 */6 * * *"

// Command returns the schedule command.
func Command() *cobra.Command {
	var (
		cronSpec string
		listing  string
	)

	cmd := &cobra.Command{
		Use:   "schedule --listing URL",
		Short: "Harvest a listing page on a recurring schedule",
		Long: `Harvest a listing page on a cron schedule. Each tick processes one
listing page and persists the next-page link; the following tick continues
from that link, so a deep listing is walked one page per tick.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listing == "" {
				return errors.New("--listing is required")
			}
			return run(cronSpec, listing)
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", defaultCronSpec, "cron schedule expression")
	cmd.Flags().StringVar(&listing, "listing", "", "listing page URL to start from")

	return cmd
}

// run installs the cron job and blocks until a shutdown signal.
func run(cronSpec, listing string) error {
	deps, depsErr := common.New()
	if depsErr != nil {
		return depsErr
	}
	log := deps.Logger.WithComponent("schedule")

	scheduler := cron.New()

	_, addErr := scheduler.AddFunc(cronSpec, func() {
		tick(deps, listing)
	})
	if addErr != nil {
		return addErr
	}

	log.Info("Schedule started", "cron", cronSpec, "listing", listing)
	scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info("Shutdown signal received", "signal", sig.String())
	<-scheduler.Stop().Done()
	return nil
}

// tick runs one harvesting pass, continuing from the persisted next link when
// one exists.
func tick(deps *common.Deps, listing string) {
	log := deps.Logger.WithComponent("schedule")

	st := deps.OpenStore()

	target := st.NextLink()
	if target == "" {
		target = listing
	}

	pl, plErr := deps.NewPipeline(st, func(msg string) { log.Info(msg) })
	if plErr != nil {
		log.Error("pipeline construction failed", "error", plErr)
		return
	}

	report := pl.HarvestListing(context.Background(), target)
	log.Info("Scheduled harvest finished",
		"listing", target,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"next_link", report.NextLink,
	)
}
