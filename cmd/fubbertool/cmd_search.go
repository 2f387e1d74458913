package main

import (
	"strings"

	"github.com/spf13/cobra"

	"fubbertool/internal/query"
	"fubbertool/internal/tokenizer"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rewrite and run a query against the resolved project's index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveProject()
		if err != nil {
			return err
		}

		tok := tokenizer.New(cfg.Dev)
		rewriter := query.New(tok)
		rewritten, err := rewriter.Rewrite(strings.Join(args, " "))
		if err != nil {
			return err
		}

		hits, err := db.Search(rewritten, root, searchLimit)
		if err != nil {
			return err
		}
		printSearchResults(cmd.OutOrStdout(), hits)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results to print")
}
