package report

import (
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// WriteResult renders one result set as an aligned text table.
func WriteResult(w io.Writer, res Result) error {
	header := fmt.Sprintf("-- %s: %s [%s]\n", res.Query.Name, res.Query.Description, res.Query.Shape)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	if res.Err != nil {
		_, err := fmt.Fprintf(w, "   ERROR: %v\n\n", res.Err)
		return err
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.Truncated {
		shown := int64(len(res.Rows))
		if _, err := fmt.Fprintf(w, "   ... %d of %d rows shown\n", shown, res.RowCount); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "   (%d rows, %s)\n\n", res.RowCount, res.Duration.Round(time.Millisecond))
	return err
}

// WriteResults renders all result sets in order.
func WriteResults(w io.Writer, results []Result) error {
	for _, res := range results {
		if err := WriteResult(w, res); err != nil {
			return err
		}
	}
	return nil
}

// formatValue renders a scanned value for display. NULLs print as NULL;
// numeric values go through their driver representation so scale is
// preserved (10.00 stays 10.00).
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil || dv == nil {
			return "NULL"
		}
		return fmt.Sprintf("%v", dv)
	default:
		return fmt.Sprintf("%v", val)
	}
}
