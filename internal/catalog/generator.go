package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/retailscope/catalog-reporter/internal/datagen"
	"github.com/retailscope/catalog-reporter/internal/db"
	"github.com/retailscope/catalog-reporter/internal/logging"
)

// Reference data for synthetic catalogs.
var categories = []string{
	"Fruits & Vegetables",
	"Dairy, Bread & Eggs",
	"Snacks & Munchies",
	"Cold Drinks & Juices",
	"Atta, Rice & Dal",
	"Masala, Oil & More",
	"Personal Care",
	"Home Cleaning",
	"Packaged Food",
	"Chocolates & Candies",
}

var productAdjectives = []string{
	"Fresh", "Organic", "Premium", "Classic", "Instant",
	"Crunchy", "Homestyle", "Mini", "Family Pack", "Zero Sugar",
}

// Pack weights in grams. Zero is a deliberate bad value so the per-gram
// queries exercise their divisor guard.
var packWeights = []int{0, 50, 100, 200, 250, 500, 750, 1000, 2000, 5000, 10000}

var packWeightFreq = []int{1, 10, 15, 15, 12, 15, 8, 10, 7, 4, 3}

// Generator produces synthetic catalog rows. Prices are generated in
// minor units (paise) and a small fraction of rows is deliberately dirty
// (zero MRP, selling price above MRP, null fields) so the cleaning pass
// has realistic work to do.
type Generator struct {
	faker *datagen.Faker
	cfg   datagen.BatchInsertConfig
}

// NewGenerator creates a generator with a time-based seed.
func NewGenerator() *Generator {
	return &Generator{
		faker: datagen.NewFaker(),
		cfg:   datagen.DefaultBatchConfig(),
	}
}

// NewGeneratorWithSeed creates a generator with a fixed seed for
// reproducible catalogs.
func NewGeneratorWithSeed(seed uint64) *Generator {
	return &Generator{
		faker: datagen.NewFakerWithSeed(seed),
		cfg:   datagen.DefaultBatchConfig(),
	}
}

// Generate inserts count synthetic catalog rows.
func (g *Generator) Generate(ctx context.Context, dbc db.DB, count int) (int64, error) {
	logging.Info().Int("count", count).Msg("Generating catalog rows")

	progress := datagen.NewProgressReporter(TableName, int64(count), g.cfg.ProgressInterval)
	batch := make([]string, 0, g.cfg.BatchSize)
	var inserted int64

	for i := 0; i < count; i++ {
		batch = append(batch, g.productValues())

		if len(batch) >= g.cfg.BatchSize {
			if err := g.executeBatchInsert(ctx, dbc, batch); err != nil {
				return inserted, err
			}
			inserted += int64(len(batch))
			progress.Update(int64(len(batch)))
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := g.executeBatchInsert(ctx, dbc, batch); err != nil {
			return inserted, err
		}
		inserted += int64(len(batch))
		progress.Update(int64(len(batch)))
	}

	progress.Done()
	return inserted, nil
}

// productValues builds one VALUES tuple in paise units.
func (g *Generator) productValues() string {
	category := datagen.Choose(g.faker, categories)
	name := datagen.Truncate(g.productName(), 150)

	// MRP in paise, 10.00 to 1500.00 rupees. Roughly 1% of rows get a
	// zero MRP, mirroring the bad feed rows the cleaner deletes.
	mrpPaise := float64(g.faker.Int(1000, 150000))
	if g.faker.Int(1, 100) == 1 {
		mrpPaise = 0
	}

	discount := float64(g.faker.Int(0, 60))
	sellingPaise := mrpPaise * (100 - discount) / 100

	// ~2% of rows carry a selling price above MRP; the cleaner reports
	// these as anomalies but never mutates them.
	if mrpPaise > 0 && g.faker.Int(1, 50) == 1 {
		sellingPaise = mrpPaise * g.faker.Float64(1.01, 1.15)
	}

	available := g.faker.Int(0, 50)
	outOfStock := available == 0 || g.faker.Int(1, 10) == 1
	weight := datagen.ChooseWeighted(g.faker, packWeights, packWeightFreq)
	movement := g.faker.Int(0, 12)

	// Occasional null category, mirroring incomplete feed rows.
	categorySQL := fmt.Sprintf("'%s'", escapeSingleQuote(category))
	if g.faker.Int(1, 200) == 1 {
		categorySQL = "NULL"
	}

	return fmt.Sprintf("(%s, '%s', %.2f, %.2f, %d, %.2f, %d, %t, %d)",
		categorySQL,
		escapeSingleQuote(name),
		mrpPaise,
		discount,
		available,
		sellingPaise,
		weight,
		outOfStock,
		movement,
	)
}

func (g *Generator) productName() string {
	// Duplicate names across SKUs are intentional; the duplicate-name
	// query analyzes them.
	if g.faker.Int(1, 5) == 1 {
		return fmt.Sprintf("%s %s",
			datagen.Choose(g.faker, productAdjectives),
			datagen.Choose(g.faker, categories))
	}
	return fmt.Sprintf("%s %s",
		datagen.Choose(g.faker, productAdjectives),
		g.faker.ProductName())
}

func (g *Generator) executeBatchInsert(ctx context.Context, dbc db.DB, values []string) error {
	if len(values) == 0 {
		return nil
	}
	sql := fmt.Sprintf(`INSERT INTO products
        (category, name, mrp, "discountPercent", "availableQuantity",
         "discountedSellingPrice", "weightInGms", "outOfStock", quantity)
        VALUES %s`, strings.Join(values, ", "))
	_, err := dbc.Exec(ctx, sql)
	return err
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
