package main

import (
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List registered projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := db.ListProjects()
		if err != nil {
			return err
		}
		printProjects(cmd.OutOrStdout(), projects)
		return nil
	},
}
