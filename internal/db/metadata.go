//-------------------------------------------------------------------------
//
// Catalog Reporter
//
// Copyright (c) 2025 - 2026, RetailScope Labs
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/retailscope/catalog-reporter/internal/logging"
	"github.com/retailscope/catalog-reporter/pkg/version"
)

const metadataTable = "catalog_metadata"

// Metadata keys.
const (
	KeyVersion    = "version"
	KeyLoadedAt   = "loaded_at"
	KeySource     = "source"
	KeyRowsLoaded = "rows_loaded"
	KeyPriceUnit  = "price_unit"
)

// Price unit marker values. Prices arrive in minor units (paise) and are
// rescaled to major units (rupees) exactly once by the cleaning pass.
const (
	PriceUnitPaise  = "paise"
	PriceUnitRupees = "rupees"
)

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS catalog_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveLoadMetadata records initialization metadata after a successful load.
// price_unit starts as "paise"; only the cleaning pass may flip it.
func SaveLoadMetadata(ctx context.Context, db DB, source string, rows int64) error {
	if _, err := db.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		KeyVersion:    version.Short(),
		KeyLoadedAt:   time.Now().UTC().Format(time.RFC3339),
		KeySource:     source,
		KeyRowsLoaded: fmt.Sprintf("%d", rows),
		KeyPriceUnit:  PriceUnitPaise,
	}

	for key, value := range metadata {
		if err := SetMetadataValue(ctx, db, key, value); err != nil {
			return err
		}
	}

	logging.Debug().
		Str("source", source).
		Int64("rows", rows).
		Msg("Saved metadata")

	return nil
}

// SetMetadataValue inserts or updates a single metadata value.
func SetMetadataValue(ctx context.Context, db DB, key, value string) error {
	_, err := db.Exec(ctx, `
        INSERT INTO catalog_metadata (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `, key, value)
	if err != nil {
		return fmt.Errorf("failed to save metadata %s: %w", key, err)
	}
	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, db DB, key string) (string, error) {
	var value string
	err := db.QueryRow(ctx, `
        SELECT value FROM catalog_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// PriceUnit returns the current price unit marker. A missing metadata
// table or key means the database was never initialized by this tool.
func PriceUnit(ctx context.Context, db DB) (string, error) {
	unit, err := GetMetadataValue(ctx, db, KeyPriceUnit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("price_unit metadata missing; run 'catalog-reporter init' first")
		}
		return "", fmt.Errorf("failed to read price_unit: %w", err)
	}
	return unit, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, db DB) (map[string]string, error) {
	rows, err := db.Query(ctx, `SELECT key, value FROM catalog_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}
