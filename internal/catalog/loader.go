package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/retailscope/catalog-reporter/internal/db"
	"github.com/retailscope/catalog-reporter/internal/logging"
)

// CopyDB adds bulk-copy support to the base DB interface. Both
// *pgxpool.Pool and *pgx.Conn satisfy it.
type CopyDB interface {
	db.DB
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// LoadCSV bulk-loads catalog rows from a CSV file into the products table
// via COPY. The header row must name the catalog columns (any order,
// case-insensitive); sku_id is optional and auto-assigned when absent.
// Empty fields load as NULL. Duplicate names are permitted.
func LoadCSV(ctx context.Context, dbc CopyDB, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return 0, err
	}

	src := &csvSource{reader: r, columns: cols}
	rows, err := dbc.CopyFrom(ctx, pgx.Identifier{TableName}, cols, src)
	if err != nil {
		return 0, fmt.Errorf("failed to copy CSV rows: %w", err)
	}

	logging.Info().
		Str("path", path).
		Int64("rows", rows).
		Msg("Loaded catalog from CSV")

	return rows, nil
}

// mapHeader validates the CSV header against the catalog columns and
// returns the column names in file order.
func mapHeader(header []string) ([]string, error) {
	known := make(map[string]string, len(Columns))
	for _, c := range Columns {
		known[strings.ToLower(c)] = c
	}

	seen := make(map[string]bool, len(header))
	cols := make([]string, 0, len(header))
	for _, h := range header {
		name, ok := known[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			return nil, fmt.Errorf("unknown CSV column %q", h)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate CSV column %q", h)
		}
		seen[name] = true
		cols = append(cols, name)
	}

	// Every column except sku_id must be present.
	for _, c := range Columns {
		if c == "sku_id" {
			continue
		}
		if !seen[c] {
			return nil, fmt.Errorf("missing CSV column %q", c)
		}
	}

	return cols, nil
}

// csvSource streams CSV records into COPY, converting fields to the
// column types as it goes.
type csvSource struct {
	reader  *csv.Reader
	columns []string
	values  []any
	err     error
	line    int
}

// Next advances to the next CSV record.
func (s *csvSource) Next() bool {
	if s.err != nil {
		return false
	}

	record, err := s.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		s.err = fmt.Errorf("failed to read CSV record: %w", err)
		return false
	}
	s.line++

	values := make([]any, len(s.columns))
	for i, col := range s.columns {
		v, err := parseField(col, record[i])
		if err != nil {
			s.err = fmt.Errorf("line %d, column %s: %w", s.line, col, err)
			return false
		}
		values[i] = v
	}
	s.values = values
	return true
}

// Values returns the converted values for the current record.
func (s *csvSource) Values() ([]any, error) {
	return s.values, s.err
}

// Err returns any error encountered while reading.
func (s *csvSource) Err() error {
	return s.err
}

// parseField converts a raw CSV field to the column's Go type. Empty
// fields become NULL; null detection and repair is the cleaner's job,
// not the loader's.
func parseField(column, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	switch column {
	case "sku_id", "availableQuantity", "weightInGms", "quantity":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return int32(n), nil
	case "mrp", "discountPercent", "discountedSellingPrice":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return f, nil
	case "outOfStock":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}
