// Package main implements the fubbertool CLI - a thin dispatcher over the
// core Discovery/Extractor/Indexer/Updater/Store pipeline. The core makes
// every decision; this package only resolves the project root, wires
// flags into config, and renders output.
//
// # File Index
//
//	main.go        - entry point, rootCmd, global flags, exit-code mapping
//	cmd_init.go    - initCmd: register a project root
//	cmd_index.go   - indexCmd: full re-index of the resolved project
//	cmd_update.go  - updateCmd: one throttled Updater sweep
//	cmd_search.go  - searchCmd: rewrite + run a query, print hits
//	cmd_projects.go - projectsCmd: list registered projects
//	output.go      - table and snippet rendering, isatty detection
//	progress.go    - bubbletea progress display for index/update
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fubbertool/internal/apperr"
	"fubbertool/internal/config"
	"fubbertool/internal/logging"
	"fubbertool/internal/query"
	"fubbertool/internal/store"
)

var (
	workspace string
	verbose   bool

	cfg    *config.Config
	db     *store.Store
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fubbertool",
	Short: "Local code search: tokenize, index, and query a project's source tree.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("init zap logger: %w", err)
		}

		home, err := config.StoreDir()
		if err != nil {
			return err
		}
		cfg, err = config.Load(filepath.Join(home, "config.yaml"))
		if err != nil {
			return err
		}
		ws, err := resolveWorkspace()
		if err != nil {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws, logging.Settings{
			Level:      cfg.Logging.Level,
			DebugMode:  cfg.Logging.DebugMode || verbose,
			Categories: cfg.Logging.Categories,
			JSONFormat: cfg.Logging.JSONFormat,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}

		storePath, err := config.StorePath()
		if err != nil {
			return err
		}
		db, err = store.Open(storePath)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "project directory (default: current)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(initCmd, indexCmd, updateCmd, searchCmd, projectsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps spec.md §6's error kinds to the four documented exit
// codes: 0 success, 1 resolution/parse failure, 2 I/O or store error, 3
// invalid arguments.
func exitCodeFor(err error) int {
	var cfgErr *apperr.ConfigError
	var queryErr *query.ParseError
	if errors.As(err, &cfgErr) || errors.As(err, &queryErr) {
		return 1
	}
	var storeErr *store.Error
	var fsErr *apperr.FilesystemError
	if errors.As(err, &storeErr) || errors.As(err, &fsErr) {
		return 2
	}
	if errors.Is(err, errInvalidArgs) {
		return 3
	}
	return 2
}

var errInvalidArgs = errors.New("invalid arguments")

// resolveWorkspace returns the directory commands should resolve a
// project from: --workspace if set, else cwd.
func resolveWorkspace() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	return os.Getwd()
}
