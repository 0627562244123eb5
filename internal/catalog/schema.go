//-------------------------------------------------------------------------
//
// Catalog Reporter
//
// Copyright (c) 2025 - 2026, RetailScope Labs
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package catalog implements the product catalog relation: schema, data
// loading, the cleaning pass, and the fixed analytical query set.
package catalog

import (
	"context"

	"github.com/retailscope/catalog-reporter/internal/db"
)

// TableName is the catalog relation name.
const TableName = "products"

// Columns lists all catalog columns in schema order. CamelCase columns are
// quoted identifiers in PostgreSQL so projected names match the source
// schema exactly.
var Columns = []string{
	"sku_id",
	"category",
	"name",
	"mrp",
	"discountPercent",
	"availableQuantity",
	"discountedSellingPrice",
	"weightInGms",
	"outOfStock",
	"quantity",
}

// Schema SQL for the single flat catalog relation. Prices are loaded in
// minor units (paise); the cleaning pass rescales them to rupees.
const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS products (
    sku_id                   INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    category                 VARCHAR(120),
    name                     VARCHAR(150) NOT NULL,
    mrp                      NUMERIC(8,2),
    "discountPercent"        NUMERIC(5,2),
    "availableQuantity"      INTEGER,
    "discountedSellingPrice" NUMERIC(8,2),
    "weightInGms"            INTEGER,
    "outOfStock"             BOOLEAN,
    quantity                 INTEGER
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_out_of_stock ON products("outOfStock");
CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS products CASCADE;
`

// CreateSchema creates the catalog schema.
func CreateSchema(ctx context.Context, dbc db.DB) error {
	_, err := dbc.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the catalog schema.
func DropSchema(ctx context.Context, dbc db.DB) error {
	_, err := dbc.Exec(ctx, dropSchemaSQL)
	return err
}

// RowCount returns the current number of catalog rows.
func RowCount(ctx context.Context, dbc db.DB) (int64, error) {
	var count int64
	err := dbc.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	return count, err
}
