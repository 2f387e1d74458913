package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fubbertool/internal/indexer"
	"fubbertool/internal/updater"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one throttled incremental update sweep over the resolved project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveProject()
		if err != nil {
			return err
		}
		ix := indexer.New(db, cfg.Dev)
		up := updater.New(db, ix, cfg.Updater)
		onProgress, stop := progressReporter(cmd.OutOrStdout())
		result, err := up.Run(root, time.Now(), onProgress)
		stop()
		if err != nil {
			return err
		}
		if result.Throttled {
			fmt.Fprintln(cmd.OutOrStdout(), "skipped: last check was within the throttle window")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "changed=%d new=%d removed=%d\n", len(result.Changed), len(result.New), len(result.Removed))
		return nil
	},
}
