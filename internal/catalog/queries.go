//-------------------------------------------------------------------------
//
// Catalog Reporter
//
// Copyright (c) 2025 - 2026, RetailScope Labs
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package catalog

import "fmt"

// Query shapes.
const (
	ShapeFilterSort     = "filter+sort"
	ShapeGroupAggregate = "group+aggregate"
	ShapeWindow         = "window"
	ShapeJoinComparison = "join-comparison"
)

// Query is one read-only analytical query over the cleaned catalog.
// Projected column names and sort order are part of the contract.
type Query struct {
	// Name identifies the query.
	Name string

	// Description describes what the query answers.
	Description string

	// Shape is the query's algorithmic shape.
	Shape string

	// SQL is the statement to execute.
	SQL string
}

// Queries returns the fixed analytical query set in report order. All
// queries are independent and assume the cleaning pass has run (prices
// in rupees, no zero-MRP rows). Percentages round to 2 decimal places
// via numeric ROUND; divisions guard zero divisors with NULLIF so a
// zero weight yields NULL rather than an error.
func Queries() []Query {
	return []Query{
		{
			Name:        "top_discounts",
			Description: "Top 10 best-value products by discount percentage",
			Shape:       ShapeFilterSort,
			SQL: `
                SELECT sku_id, name, category, mrp, "discountPercent",
                       "discountedSellingPrice"
                FROM products
                ORDER BY "discountPercent" DESC, sku_id
                LIMIT 10`,
		},
		{
			Name:        "premium_out_of_stock",
			Description: "High-MRP products currently out of stock",
			Shape:       ShapeFilterSort,
			SQL: `
                SELECT sku_id, name, category, mrp
                FROM products
                WHERE mrp > 300 AND "outOfStock"
                ORDER BY mrp DESC, sku_id`,
		},
		{
			Name:        "category_revenue",
			Description: "Estimated revenue per category",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT category,
                       ROUND(SUM("discountedSellingPrice" * "availableQuantity"), 2) AS total_revenue
                FROM products
                GROUP BY category
                ORDER BY total_revenue DESC NULLS LAST`,
		},
		{
			Name:        "premium_low_discount",
			Description: "Products with MRP above 500 and discount below 10%",
			Shape:       ShapeFilterSort,
			SQL: `
                SELECT sku_id, name, category, mrp, "discountPercent"
                FROM products
                WHERE mrp > 500 AND "discountPercent" < 10
                ORDER BY mrp DESC, "discountPercent" DESC, sku_id`,
		},
		{
			Name:        "top_discount_categories",
			Description: "Top 5 categories by average discount percentage",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT category,
                       ROUND(AVG("discountPercent"), 2) AS avg_discount
                FROM products
                GROUP BY category
                ORDER BY avg_discount DESC NULLS LAST
                LIMIT 5`,
		},
		{
			Name:        "price_per_gram",
			Description: "Price per gram for products of 100g and above, best value first",
			Shape:       ShapeFilterSort,
			SQL: `
                SELECT sku_id, name, "weightInGms", "discountedSellingPrice",
                       ROUND("discountedSellingPrice" / NULLIF("weightInGms", 0), 2) AS price_per_gram
                FROM products
                WHERE "weightInGms" >= 100
                ORDER BY price_per_gram ASC NULLS LAST, sku_id`,
		},
		{
			Name:        "weight_classes",
			Description: "Product counts by weight class (Low/Medium/Bulk)",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT CASE
                           WHEN "weightInGms" < 1000 THEN 'Low'
                           WHEN "weightInGms" < 5000 THEN 'Medium'
                           ELSE 'Bulk'
                       END AS weight_class,
                       COUNT(*) AS product_count
                FROM products
                WHERE "weightInGms" IS NOT NULL
                GROUP BY weight_class
                ORDER BY product_count DESC`,
		},
		{
			Name:        "category_shelf_weight",
			Description: "Total inventory weight per category in kilograms",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT category,
                       ROUND(SUM("weightInGms" * "availableQuantity") / 1000.0, 2) AS total_weight_kg
                FROM products
                GROUP BY category
                ORDER BY total_weight_kg DESC NULLS LAST`,
		},
		{
			Name:        "duplicate_names",
			Description: "Product names shared by more than one SKU",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT name, COUNT(*) AS sku_count
                FROM products
                GROUP BY name
                HAVING COUNT(*) > 1
                ORDER BY sku_count DESC, name`,
		},
		{
			Name:        "stock_split",
			Description: "Row and inventory-unit totals by stock status",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT "outOfStock",
                       COUNT(*) AS product_count,
                       SUM("availableQuantity") AS total_units
                FROM products
                GROUP BY "outOfStock"
                ORDER BY "outOfStock"`,
		},
		{
			Name:        "slow_movers",
			Description: "High stock with low movement",
			Shape:       ShapeFilterSort,
			SQL: `
                SELECT sku_id, name, category, "availableQuantity", quantity
                FROM products
                WHERE "availableQuantity" > 5 AND quantity < 2
                ORDER BY "availableQuantity" DESC, sku_id`,
		},
		{
			Name:        "category_price_gap",
			Description: "Average MRP, selling price and savings per category",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT category,
                       ROUND(AVG(mrp), 2) AS avg_mrp,
                       ROUND(AVG("discountedSellingPrice"), 2) AS avg_selling_price,
                       ROUND(AVG(mrp - "discountedSellingPrice"), 2) AS avg_savings
                FROM products
                GROUP BY category
                ORDER BY avg_savings DESC NULLS LAST`,
		},
		{
			Name:        "discount_rank_in_category",
			Description: "Products ranked by discount within their category",
			Shape:       ShapeWindow,
			SQL: `
                SELECT sku_id, name, category, "discountPercent",
                       RANK() OVER (PARTITION BY category
                                    ORDER BY "discountPercent" DESC) AS discount_rank
                FROM products
                ORDER BY category, discount_rank, sku_id`,
		},
		{
			Name:        "revenue_share",
			Description: "Each product's share of total catalog revenue",
			Shape:       ShapeWindow,
			SQL: `
                SELECT sku_id, name, category,
                       ROUND("discountedSellingPrice" * "availableQuantity", 2) AS revenue,
                       ROUND(100.0 * ("discountedSellingPrice" * "availableQuantity")
                             / NULLIF(SUM("discountedSellingPrice" * "availableQuantity") OVER (), 0),
                             2) AS revenue_pct
                FROM products
                ORDER BY revenue_pct DESC NULLS LAST, sku_id`,
		},
		{
			Name:        "category_top3_revenue",
			Description: "Top 3 revenue products within each category",
			Shape:       ShapeWindow,
			SQL: `
                SELECT sku_id, name, category, revenue, revenue_rank
                FROM (
                    SELECT sku_id, name, category,
                           ROUND("discountedSellingPrice" * "availableQuantity", 2) AS revenue,
                           RANK() OVER (PARTITION BY category
                                        ORDER BY "discountedSellingPrice" * "availableQuantity" DESC) AS revenue_rank
                    FROM products
                ) ranked
                WHERE revenue_rank <= 3
                ORDER BY category, revenue_rank, sku_id`,
		},
		{
			Name:        "above_category_discount",
			Description: "Products discounted above their category average",
			Shape:       ShapeJoinComparison,
			SQL: `
                SELECT p.sku_id, p.name, p.category, p."discountPercent",
                       ROUND(c.avg_discount, 2) AS category_avg_discount
                FROM products p
                JOIN (
                    SELECT category, AVG("discountPercent") AS avg_discount
                    FROM products
                    GROUP BY category
                ) c ON p.category = c.category
                WHERE p."discountPercent" > c.avg_discount
                ORDER BY p.category, p."discountPercent" DESC, p.sku_id`,
		},
		{
			Name:        "price_bands",
			Description: "Product counts per selling-price band",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT CASE
                           WHEN "discountedSellingPrice" < 100 THEN 'under_100'
                           WHEN "discountedSellingPrice" < 300 THEN '100_to_299'
                           WHEN "discountedSellingPrice" < 500 THEN '300_to_499'
                           ELSE '500_plus'
                       END AS price_band,
                       COUNT(*) AS product_count
                FROM products
                WHERE "discountedSellingPrice" IS NOT NULL
                GROUP BY price_band
                ORDER BY MIN("discountedSellingPrice")`,
		},
		{
			Name:        "category_price_per_gram",
			Description: "Average price per gram by category",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT category,
                       ROUND(AVG("discountedSellingPrice" / NULLIF("weightInGms", 0)), 2) AS avg_price_per_gram
                FROM products
                GROUP BY category
                ORDER BY avg_price_per_gram DESC NULLS LAST`,
		},
		{
			Name:        "category_revenue_share",
			Description: "Each category's share of total catalog revenue",
			Shape:       ShapeWindow,
			SQL: `
                SELECT category,
                       ROUND(SUM("discountedSellingPrice" * "availableQuantity"), 2) AS revenue,
                       ROUND(100.0 * SUM("discountedSellingPrice" * "availableQuantity")
                             / NULLIF(SUM(SUM("discountedSellingPrice" * "availableQuantity")) OVER (), 0),
                             2) AS revenue_pct
                FROM products
                GROUP BY category
                ORDER BY revenue_pct DESC NULLS LAST`,
		},
		{
			Name:        "catalog_summary",
			Description: "Catalog-wide totals",
			Shape:       ShapeGroupAggregate,
			SQL: `
                SELECT COUNT(*) AS total_skus,
                       COUNT(DISTINCT category) AS total_categories,
                       COUNT(*) FILTER (WHERE NOT "outOfStock") AS in_stock,
                       COUNT(*) FILTER (WHERE "outOfStock") AS out_of_stock,
                       ROUND(SUM("discountedSellingPrice" * "availableQuantity"), 2) AS inventory_value,
                       ROUND(AVG("discountPercent"), 2) AS avg_discount
                FROM products`,
		},
	}
}

// GetQuery retrieves a query by name.
func GetQuery(name string) (Query, error) {
	for _, q := range Queries() {
		if q.Name == name {
			return q, nil
		}
	}
	return Query{}, fmt.Errorf("unknown query: %s", name)
}

// QueryNames returns the names of all queries in report order.
func QueryNames() []string {
	queries := Queries()
	names := make([]string, len(queries))
	for i, q := range queries {
		names[i] = q.Name
	}
	return names
}
