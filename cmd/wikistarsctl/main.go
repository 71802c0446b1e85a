// Command wikistarsctl runs maintenance tasks against a WikiStars5 database.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wikistars5/wikistars5/internal/config"
	"github.com/wikistars5/wikistars5/internal/database"
	"github.com/wikistars5/wikistars5/internal/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "wikistarsctl",
	Short:         "WikiStars5 admin tool",
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(scrapeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs: config, a logger and, when asked for,
// a migrated database.
type env struct {
	cfg *config.Config
	log zerolog.Logger
	db  *database.DB
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
}

func loadEnv(withDB bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "console"})

	e := &env{cfg: cfg, log: log.Logger}
	if !withDB {
		return e, nil
	}

	e.db, err = database.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := e.db.Migrate(); err != nil {
		e.db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return e, nil
}
