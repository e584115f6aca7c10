package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"catalog-search/internal/catalogsync"
	"catalog-search/internal/ledger"
	"catalog-search/internal/shopify"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Insert every Shopify product into the vector collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		source, err := newShopifyClient()
		if err != nil {
			return err
		}
		store, err := newProductStore()
		if err != nil {
			return err
		}
		recorder, closeLedger, err := newLedger(ctx)
		if err != nil {
			return err
		}
		defer closeLedger()

		pageSize, _ := cmd.Flags().GetInt("page-size")
		syncer := catalogsync.New(source, newRepository(store), log.Named("sync"),
			catalogsync.WithLedger(recorder),
			catalogsync.WithPageSize(pageSize),
		)

		report, runErr := syncer.Run(ctx)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Synced %d products (%d skipped, %d failed) over %d pages in %s\n",
			len(report.Synced), report.Skipped, len(report.Failed), report.Pages,
			report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
		if len(report.Failed) > 0 {
			fmt.Fprintf(out, "Failed product ids: %v\n", report.Failed)
		}
		return runErr
	},
}

var syncHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the latest sync runs recorded in MongoDB",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required to read the sync history")
		}
		recorder, closeLedger, err := newLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer closeLedger()

		history, ok := recorder.(*ledger.MongoRecorder)
		if !ok {
			return fmt.Errorf("sync history needs the MongoDB ledger")
		}
		limit, _ := cmd.Flags().GetInt64("limit")
		runs, err := history.LastSyncRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tPAGES\tSYNCED\tSKIPPED\tFAILED\tERROR")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
				r.StartedAt.Local().Format(time.DateTime), r.Pages, len(r.Synced), r.Skipped, len(r.Failed), r.Error)
		}
		return w.Flush()
	},
}

func init() {
	syncCmd.Flags().Int("page-size", shopify.MaxPageSize, "products per Shopify page (max 250)")
	syncHistoryCmd.Flags().Int64("limit", 10, "number of runs to show")
	syncCmd.AddCommand(syncHistoryCmd)
}
