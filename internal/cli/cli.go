//-------------------------------------------------------------------------
//
// Catalog Reporter
//
// Copyright (c) 2025 - 2026, RetailScope Labs
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for catalog-reporter.
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/retailscope/catalog-reporter/internal/catalog"
	"github.com/retailscope/catalog-reporter/internal/config"
	"github.com/retailscope/catalog-reporter/internal/logging"
	"github.com/retailscope/catalog-reporter/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "catalog-reporter",
		Short: "PostgreSQL product-catalog analysis tool",
		Long: `catalog-reporter loads a flat product-catalog relation into PostgreSQL,
runs a cleaning pass over it (null audit, zero-price removal, paise to
rupee rescale), and answers a fixed set of twenty analytical questions
by aggregation, ranking and windowing over the cleaned relation.

Typical flow:
  catalog-reporter init --csv products.csv --connection "postgres://..."
  catalog-reporter clean
  catalog-reporter report`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./catalog-reporter.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(queriesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List the analytical queries",
	Long: `List the fixed analytical query set. Each query is a read-only,
independent transformation over the cleaned catalog; 'report --query'
accepts any of these names.`,
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSHAPE\tDESCRIPTION")
		for _, q := range catalog.Queries() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", q.Name, q.Shape, q.Description)
		}
		tw.Flush()
	},
}
