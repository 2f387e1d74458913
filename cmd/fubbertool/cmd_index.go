package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fubbertool/internal/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Full re-index of the resolved project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveProject()
		if err != nil {
			return err
		}
		ix := indexer.New(db, cfg.Dev)
		onProgress, stop := progressReporter(cmd.OutOrStdout())
		err = ix.Full(root, onProgress)
		stop()
		if err != nil {
			return err
		}
		n, err := db.CountEntities()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %s: %d entities\n", root, n)
		return nil
	},
}
