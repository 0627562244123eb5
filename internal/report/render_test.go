package report

import (
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/retailscope/catalog-reporter/internal/catalog"
)

type fakeNumeric struct {
	s   string
	err error
}

func (f fakeNumeric) Value() (driver.Value, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.s, nil
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "Snacks", "Snacks"},
		{"int64", int64(42), "42"},
		{"bool", true, "true"},
		{"float64", 12.5, "12.5"},
		{"time", ts, "2026-03-14T09:26:53Z"},
		// Valuer path keeps the driver's string form, so numeric scale
		// survives rendering.
		{"valuer", fakeNumeric{s: "10.00"}, "10.00"},
		{"valuer error", fakeNumeric{err: errors.New("boom")}, "NULL"},
	}

	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func sampleResult() Result {
	return Result{
		Query: catalog.Query{
			Name:        "top_discounts",
			Description: "Top 10 best-value products by discount percentage",
			Shape:       catalog.ShapeFilterSort,
		},
		Columns: []string{"sku_id", "name", "discountPercent"},
		Rows: [][]string{
			{"1", "Masala Chips", "40.00"},
			{"2", "Mango Drink", "25.00"},
		},
		RowCount: 2,
		Duration: 12 * time.Millisecond,
	}
}

func TestWriteResult(t *testing.T) {
	var buf strings.Builder
	if err := WriteResult(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "-- top_discounts: Top 10 best-value products by discount percentage [filter+sort]") {
		t.Errorf("Missing or malformed header:\n%s", out)
	}
	for _, want := range []string{"sku_id", "Masala Chips", "40.00", "(2 rows, 12ms)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "rows shown") {
		t.Errorf("Unexpected truncation note:\n%s", out)
	}
}

func TestWriteResultTruncated(t *testing.T) {
	res := sampleResult()
	res.RowCount = 500
	res.Truncated = true

	var buf strings.Builder
	if err := WriteResult(&buf, res); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "... 2 of 500 rows shown") {
		t.Errorf("Missing truncation note:\n%s", out)
	}
	if !strings.Contains(out, "(500 rows,") {
		t.Errorf("Footer should report the full row count:\n%s", out)
	}
}

func TestWriteResultError(t *testing.T) {
	res := Result{
		Query: catalog.Query{Name: "category_revenue", Description: "Estimated revenue per category", Shape: catalog.ShapeGroupAggregate},
		Err:   errors.New("relation does not exist"),
	}

	var buf strings.Builder
	if err := WriteResult(&buf, res); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "ERROR: relation does not exist") {
		t.Errorf("Missing error line:\n%s", out)
	}
	if strings.Contains(out, "rows,") {
		t.Errorf("Failed result should not print a row footer:\n%s", out)
	}
}

func TestWriteResultsOrder(t *testing.T) {
	first := sampleResult()
	second := sampleResult()
	second.Query.Name = "premium_out_of_stock"

	var buf strings.Builder
	if err := WriteResults(&buf, []Result{first, second}); err != nil {
		t.Fatalf("WriteResults failed: %v", err)
	}
	out := buf.String()

	i := strings.Index(out, "top_discounts")
	j := strings.Index(out, "premium_out_of_stock")
	if i < 0 || j < 0 || j < i {
		t.Errorf("Results out of order:\n%s", out)
	}
}
