// Package export writes the combined group, person, and project table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matsen/dhnet/internal/dataset"
)

// KindColumn is the column added by CombineWithKind.
const KindColumn = "kind"

// CombinedName is the table name used for the combined export.
const CombinedName = "combined"

// Combine concatenates tables row-wise. The result has the union of all
// columns in first-seen order; cells for columns a source table lacks are
// empty. Row order follows the input order.
func Combine(tables ...*dataset.Table) *dataset.Table {
	return combine(tables, nil)
}

// CombineWithKind is Combine with a leading column recording which kind each
// row came from. kinds must have the same length as tables.
func CombineWithKind(tables []*dataset.Table, kinds []string) (*dataset.Table, error) {
	if len(kinds) != len(tables) {
		return nil, fmt.Errorf("got %d kinds for %d tables", len(kinds), len(tables))
	}
	return combine(tables, kinds), nil
}

func combine(tables []*dataset.Table, kinds []string) *dataset.Table {
	var columns []string
	seen := make(map[string]bool)
	if kinds != nil {
		columns = append(columns, KindColumn)
		seen[KindColumn] = true
	}
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		pos[c] = i
	}

	out := dataset.NewTable(CombinedName, columns)
	for ti, t := range tables {
		// Cells are copied as read; only missing-value markers are blanked.
		dst := make([]int, len(t.Columns))
		filled := make(map[string]bool, len(t.Columns))
		for j, c := range t.Columns {
			dst[j] = -1
			if !filled[c] {
				filled[c] = true
				dst[j] = pos[c]
			}
		}
		for _, src := range t.Rows {
			row := make([]string, len(columns))
			if kinds != nil {
				row[0] = kinds[ti]
			}
			for j, v := range src {
				if j < len(dst) && dst[j] >= 0 && !dataset.IsMissing(v) {
					row[dst[j]] = v
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// WriteCSV writes t with a header row using the given delimiter.
func WriteCSV(w io.Writer, t *dataset.Table, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes t to path, creating the parent directory if needed.
func WriteCSVFile(path string, t *dataset.Table, delim rune) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	if err := WriteCSV(f, t, delim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
