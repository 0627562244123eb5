package catalog

import (
	"context"
	"fmt"

	"github.com/retailscope/catalog-reporter/internal/db"
	"github.com/retailscope/catalog-reporter/internal/logging"
)

// CleanReport summarizes one run of the cleaning pass.
type CleanReport struct {
	// NullCounts holds per-column null counts (audit only, no repair).
	NullCounts map[string]int64

	// RowsWithNulls is the number of rows with at least one null field.
	RowsWithNulls int64

	// ZeroMRP and ZeroSellingPrice count zero-price rows found before
	// deletion.
	ZeroMRP          int64
	ZeroSellingPrice int64

	// DeletedZeroMRP is how many mrp = 0 rows were deleted.
	DeletedZeroMRP int64

	// Rescaled reports whether the paise-to-rupee rescale ran. PriceUnit
	// is the marker value after the pass.
	Rescaled  bool
	PriceUnit string

	// AnomalyCount counts rows where the selling price exceeds MRP.
	// These are reported, never mutated.
	AnomalyCount   int64
	AnomalySamples []PriceAnomaly
}

// PriceAnomaly is a row whose selling price exceeds its MRP.
type PriceAnomaly struct {
	SKUID        int32
	Name         string
	MRP          float64
	SellingPrice float64
}

// Cleaner runs the destructive cleaning pass over the catalog:
// null audit, zero-MRP deletion, and the one-time price rescale.
type Cleaner struct {
	db          db.DB
	sampleLimit int
}

// NewCleaner creates a cleaner. sampleLimit caps how many anomaly rows
// are collected for the report.
func NewCleaner(dbc db.DB, sampleLimit int) *Cleaner {
	return &Cleaner{db: dbc, sampleLimit: sampleLimit}
}

// Run executes the full cleaning pass. The null and zero-price audits
// and the deletion are idempotent; the rescale runs at most once per
// database, guarded by the price_unit metadata marker.
func (c *Cleaner) Run(ctx context.Context) (*CleanReport, error) {
	report := &CleanReport{}

	if err := c.auditNulls(ctx, report); err != nil {
		return nil, fmt.Errorf("null audit failed: %w", err)
	}

	if err := c.auditZeroPrices(ctx, report); err != nil {
		return nil, fmt.Errorf("zero-price audit failed: %w", err)
	}

	if err := c.deleteZeroMRP(ctx, report); err != nil {
		return nil, fmt.Errorf("zero-MRP delete failed: %w", err)
	}

	if err := c.rescalePrices(ctx, report); err != nil {
		return nil, fmt.Errorf("price rescale failed: %w", err)
	}

	if err := c.auditAnomalies(ctx, report); err != nil {
		return nil, fmt.Errorf("anomaly audit failed: %w", err)
	}

	logging.Info().
		Int64("rows_with_nulls", report.RowsWithNulls).
		Int64("deleted_zero_mrp", report.DeletedZeroMRP).
		Bool("rescaled", report.Rescaled).
		Str("price_unit", report.PriceUnit).
		Int64("price_anomalies", report.AnomalyCount).
		Msg("Cleaning pass complete")

	return report, nil
}

// auditNulls counts nulls per column and rows with any null field.
// Violations are surfaced, not repaired.
func (c *Cleaner) auditNulls(ctx context.Context, report *CleanReport) error {
	row := c.db.QueryRow(ctx, `
        SELECT
            COUNT(*) FILTER (WHERE category IS NULL),
            COUNT(*) FILTER (WHERE name IS NULL),
            COUNT(*) FILTER (WHERE mrp IS NULL),
            COUNT(*) FILTER (WHERE "discountPercent" IS NULL),
            COUNT(*) FILTER (WHERE "availableQuantity" IS NULL),
            COUNT(*) FILTER (WHERE "discountedSellingPrice" IS NULL),
            COUNT(*) FILTER (WHERE "weightInGms" IS NULL),
            COUNT(*) FILTER (WHERE "outOfStock" IS NULL),
            COUNT(*) FILTER (WHERE quantity IS NULL),
            COUNT(*) FILTER (WHERE category IS NULL
                OR name IS NULL
                OR mrp IS NULL
                OR "discountPercent" IS NULL
                OR "availableQuantity" IS NULL
                OR "discountedSellingPrice" IS NULL
                OR "weightInGms" IS NULL
                OR "outOfStock" IS NULL
                OR quantity IS NULL)
        FROM products
    `)

	counts := make([]int64, 10)
	dests := make([]any, len(counts))
	for i := range counts {
		dests[i] = &counts[i]
	}
	if err := row.Scan(dests...); err != nil {
		return err
	}

	auditedColumns := []string{
		"category", "name", "mrp", "discountPercent", "availableQuantity",
		"discountedSellingPrice", "weightInGms", "outOfStock", "quantity",
	}
	report.NullCounts = make(map[string]int64, len(auditedColumns))
	for i, col := range auditedColumns {
		report.NullCounts[col] = counts[i]
		if counts[i] > 0 {
			logging.Warn().
				Str("column", col).
				Int64("nulls", counts[i]).
				Msg("Null values found")
		}
	}
	report.RowsWithNulls = counts[9]
	return nil
}

func (c *Cleaner) auditZeroPrices(ctx context.Context, report *CleanReport) error {
	return c.db.QueryRow(ctx, `
        SELECT
            COUNT(*) FILTER (WHERE mrp = 0),
            COUNT(*) FILTER (WHERE "discountedSellingPrice" = 0)
        FROM products
    `).Scan(&report.ZeroMRP, &report.ZeroSellingPrice)
}

// deleteZeroMRP removes rows with a zero MRP. Destructive and
// irreversible; re-running finds nothing to delete.
func (c *Cleaner) deleteZeroMRP(ctx context.Context, report *CleanReport) error {
	tag, err := c.db.Exec(ctx, `DELETE FROM products WHERE mrp = 0`)
	if err != nil {
		return err
	}
	report.DeletedZeroMRP = tag.RowsAffected()

	if report.DeletedZeroMRP > 0 {
		logging.Info().
			Int64("rows", report.DeletedZeroMRP).
			Msg("Deleted zero-MRP rows")
	}
	return nil
}

// rescalePrices divides mrp and discountedSellingPrice by 100, converting
// paise to rupees. Dividing twice would corrupt the data, so the update
// and the price_unit marker flip commit in one transaction and the
// rescale is skipped once the marker reads "rupees".
func (c *Cleaner) rescalePrices(ctx context.Context, report *CleanReport) error {
	unit, err := db.PriceUnit(ctx, c.db)
	if err != nil {
		return err
	}

	if unit != db.PriceUnitPaise {
		report.PriceUnit = unit
		logging.Debug().
			Str("price_unit", unit).
			Msg("Prices already in major units, skipping rescale")
		return nil
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE products
        SET mrp = mrp / 100.0,
            "discountedSellingPrice" = "discountedSellingPrice" / 100.0
    `)
	if err != nil {
		return err
	}

	if err := db.SetMetadataValue(ctx, tx, db.KeyPriceUnit, db.PriceUnitRupees); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rescale: %w", err)
	}

	report.Rescaled = true
	report.PriceUnit = db.PriceUnitRupees

	logging.Info().
		Int64("rows", tag.RowsAffected()).
		Msg("Rescaled prices from paise to rupees")

	return nil
}

// auditAnomalies reports rows whose selling price exceeds MRP.
func (c *Cleaner) auditAnomalies(ctx context.Context, report *CleanReport) error {
	err := c.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM products WHERE "discountedSellingPrice" > mrp
    `).Scan(&report.AnomalyCount)
	if err != nil {
		return err
	}

	if report.AnomalyCount == 0 || c.sampleLimit == 0 {
		return nil
	}

	rows, err := c.db.Query(ctx, `
        SELECT sku_id, name, mrp, "discountedSellingPrice"
        FROM products
        WHERE "discountedSellingPrice" > mrp
        ORDER BY "discountedSellingPrice" - mrp DESC
        LIMIT $1
    `, c.sampleLimit)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a PriceAnomaly
		if err := rows.Scan(&a.SKUID, &a.Name, &a.MRP, &a.SellingPrice); err != nil {
			return err
		}
		report.AnomalySamples = append(report.AnomalySamples, a)
	}
	return rows.Err()
}
