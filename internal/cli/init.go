package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailscope/catalog-reporter/internal/catalog"
	"github.com/retailscope/catalog-reporter/internal/db"
	"github.com/retailscope/catalog-reporter/internal/logging"
)

var (
	initCSVPath      string
	initRows         int
	initSeed         uint64
	initDropExisting bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a database with the catalog schema and data",
	Long: `Initialize a PostgreSQL database with the product-catalog schema,
then load it from a CSV file or fill it with synthetic rows. Prices are
loaded in minor units (paise); run 'clean' afterwards to rescale them.

Example:
  catalog-reporter init --csv products.csv --connection "postgres://..."
  catalog-reporter init --rows 10000 --seed 42`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initCSVPath, "csv", "",
		"CSV file to load (header row required)")
	initCmd.Flags().IntVar(&initRows, "rows", 0,
		"number of synthetic rows to generate when no CSV is given")
	initCmd.Flags().Uint64Var(&initSeed, "seed", 0,
		"RNG seed for synthetic data (0 = time-based)")
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing catalog before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initCSVPath != "" {
		cfg.Init.CSVPath = initCSVPath
	}
	if initRows > 0 {
		cfg.Init.Rows = initRows
	}
	if initSeed > 0 {
		cfg.Init.Seed = initSeed
	}
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

	if err := cfg.ValidateInit(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Init.DropExisting {
		logging.Info().Msg("Dropping existing catalog")
		if err := catalog.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := catalog.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Refuse to double-load: a catalog that already has rows would end
	// up with a mix of price units once cleaned.
	existing, err := catalog.RowCount(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf(
			"catalog already holds %d rows; use --drop-existing to reinitialize",
			existing)
	}

	var rows int64
	var source string
	if cfg.Init.CSVPath != "" {
		source = cfg.Init.CSVPath
		rows, err = catalog.LoadCSV(ctx, pool, cfg.Init.CSVPath)
		if err != nil {
			return fmt.Errorf("failed to load CSV: %w", err)
		}
	} else {
		source = "synthetic"
		gen := catalog.NewGenerator()
		if cfg.Init.Seed > 0 {
			gen = catalog.NewGeneratorWithSeed(cfg.Init.Seed)
		}
		rows, err = gen.Generate(ctx, pool, cfg.Init.Rows)
		if err != nil {
			return fmt.Errorf("failed to generate data: %w", err)
		}
	}

	if err := db.SaveLoadMetadata(ctx, pool, source, rows); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Str("source", source).
		Int64("rows", rows).
		Msg("Database initialization complete")

	return nil
}
