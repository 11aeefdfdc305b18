// Package main is the entry point for the listingsctl CLI. It runs the
// extraction pipeline and the car store from the command line against the
// same configuration as the API server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/listings-service/pkg/config"
	"github.com/user/listings-service/pkg/logger"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "listingsctl",
	Short: "Extract car listings and manage the curated car list",
	Long: `listingsctl runs the listings extraction pipeline outside the HTTP server.

extract parses a saved document offline, fetch runs the full fetch and
extract cycle for one organization, and cars edits the curated car store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env")
		c, err := config.Load(envFile)
		if err != nil {
			return err
		}
		cfg = c
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = "warn"
		}
		l, err := logger.New(level, cfg.LogFile)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("env", ".env", "env file to read configuration from")
	rootCmd.PersistentFlags().String("log-level", "", "log level (default: warn)")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
