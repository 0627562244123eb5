package cli

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/retailscope/catalog-reporter/internal/catalog"
	"github.com/retailscope/catalog-reporter/internal/db"
)

var cleanSampleLimit int

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the cleaning pass over the catalog",
	Long: `Run the cleaning pass: audit null fields (reported, not repaired),
delete rows with a zero MRP, rescale prices from paise to rupees, and
report rows whose selling price exceeds their MRP.

The rescale is destructive and runs at most once per database; the audit
and delete steps are safe to re-run.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().IntVar(&cleanSampleLimit, "sample-limit", 0,
		"max offending rows to show per finding")
}

func runClean(cmd *cobra.Command, args []string) error {
	if cleanSampleLimit > 0 {
		cfg.Clean.SampleLimit = cleanSampleLimit
	}

	if err := cfg.ValidateClean(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	cleaner := catalog.NewCleaner(pool, cfg.Clean.SampleLimit)
	report, err := cleaner.Run(ctx)
	if err != nil {
		return err
	}

	metadata, err := db.GetAllMetadata(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	printCleanReport(cmd, metadata, report)
	return nil
}

func printCleanReport(cmd *cobra.Command, metadata map[string]string, report *catalog.CleanReport) {
	cmd.Printf("Catalog: source=%s rows_loaded=%s loaded_at=%s\n",
		metadata[db.KeySource], metadata[db.KeyRowsLoaded], metadata[db.KeyLoadedAt])
	cmd.Println()
	cmd.Println("Cleaning pass results:")
	cmd.Println()

	cmd.Printf("  Rows with null fields: %d\n", report.RowsWithNulls)
	if report.RowsWithNulls > 0 {
		cols := make([]string, 0, len(report.NullCounts))
		for col, n := range report.NullCounts {
			if n > 0 {
				cols = append(cols, col)
			}
		}
		sort.Strings(cols)
		for _, col := range cols {
			cmd.Printf("    %s: %d\n", col, report.NullCounts[col])
		}
	}

	cmd.Printf("  Zero-MRP rows found: %d (deleted: %d)\n",
		report.ZeroMRP, report.DeletedZeroMRP)
	cmd.Printf("  Zero-selling-price rows found: %d (reported only)\n",
		report.ZeroSellingPrice)

	if report.Rescaled {
		cmd.Println("  Prices rescaled from paise to rupees")
	} else {
		cmd.Printf("  Price rescale skipped (unit already %q)\n", report.PriceUnit)
	}

	cmd.Printf("  Selling price above MRP: %d rows\n", report.AnomalyCount)
	if len(report.AnomalySamples) > 0 {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "    sku_id\tname\tmrp\tdiscountedSellingPrice")
		for _, a := range report.AnomalySamples {
			fmt.Fprintf(tw, "    %d\t%s\t%.2f\t%.2f\n",
				a.SKUID, a.Name, a.MRP, a.SellingPrice)
		}
		tw.Flush()
	}
}
