package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailscope/catalog-reporter/internal/catalog"
	"github.com/retailscope/catalog-reporter/internal/db"
	"github.com/retailscope/catalog-reporter/internal/logging"
	"github.com/retailscope/catalog-reporter/internal/report"
)

var (
	reportQueries    []string
	reportParallel   int
	reportMaxRows    int
	reportAllowDirty bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the analytical query set and print result sets",
	Long: `Run the twenty analytical queries (or a subset selected with
--query) against the cleaned catalog and print each result set.

The queries are independent reads, so they may run concurrently with
--parallel. By default the command refuses to run while prices are
still in minor units; pass --allow-dirty to override.

Example:
  catalog-reporter report
  catalog-reporter report --query category_revenue --query revenue_share
  catalog-reporter report --parallel 4`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringArrayVar(&reportQueries, "query", nil,
		"query name to run (repeatable; default: all, see 'queries')")
	reportCmd.Flags().IntVar(&reportParallel, "parallel", 0,
		"number of concurrent query workers")
	reportCmd.Flags().IntVar(&reportMaxRows, "max-rows", 0,
		"max rows to print per result set (0 = config default)")
	reportCmd.Flags().BoolVar(&reportAllowDirty, "allow-dirty", false,
		"run even if prices are still in minor units")
}

func runReport(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if reportParallel > 0 {
		cfg.Report.Parallel = reportParallel
	}
	if reportMaxRows > 0 {
		cfg.Report.MaxRows = reportMaxRows
	}
	if reportAllowDirty {
		cfg.Report.AllowDirty = true
	}

	if err := cfg.ValidateReport(); err != nil {
		return err
	}

	queries, err := selectQueries(reportQueries)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	unit, err := db.PriceUnit(ctx, pool)
	if err != nil {
		return err
	}
	if unit != db.PriceUnitRupees {
		if !cfg.Report.AllowDirty {
			return fmt.Errorf(
				"prices are still in %s; run 'catalog-reporter clean' first "+
					"or pass --allow-dirty", unit)
		}
		logging.Warn().
			Str("price_unit", unit).
			Msg("Reporting over uncleaned prices")
	}

	runner := report.NewRunner(pool, queries, report.Config{
		Parallel: cfg.Report.Parallel,
		MaxRows:  cfg.Report.MaxRows,
	})

	results := runner.Run(ctx)
	if err := report.WriteResults(cmd.OutOrStdout(), results); err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}
	runner.PrintSummary()

	for _, res := range results {
		if res.Err != nil {
			return fmt.Errorf("query %s failed: %w", res.Query.Name, res.Err)
		}
	}
	return nil
}

func selectQueries(names []string) ([]catalog.Query, error) {
	if len(names) == 0 {
		return catalog.Queries(), nil
	}

	queries := make([]catalog.Query, 0, len(names))
	for _, name := range names {
		q, err := catalog.GetQuery(name)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}
