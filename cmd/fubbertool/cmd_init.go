package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Register a project root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
		name := filepath.Base(root)
		if err := db.RegisterProject(root, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered project %s at %s\n", name, root)
		return nil
	},
}
