// Package dataset loads the group, person, and project tables that describe
// the landscape.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultDelimiter is the field separator used by the landscape tables.
const DefaultDelimiter = ';'

// Table is a delimited table held in memory with its header.
// Row order is preserved from the source.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Validation errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyID       = errors.New("row has empty id")
	ErrEmptyHeader   = errors.New("table has no header")
)

// NewTable creates a table with the given columns and no rows.
func NewTable(name string, columns []string) *Table {
	t := &Table{Name: name, Columns: columns}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// ReadTable parses a delimited table from r. The first record is the header.
// Rows shorter than the header are padded with empty cells; longer rows are
// truncated to the header width.
func ReadTable(r io.Reader, name string, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", name, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	t := NewTable(name, columns)

	lineNum := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			return nil, fmt.Errorf("%s: parsing line %d: %w", name, lineNum, err)
		}
		if isBlank(rec) {
			continue
		}
		row := make([]string, len(columns))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// LoadTable reads a delimited table from a file.
func LoadTable(path, name string, delim rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s table: %w", name, err)
	}
	defer f.Close()

	return ReadTable(f, name, delim)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require returns an error wrapping ErrMissingColumn for the first absent column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("%s: %w %q", t.Name, ErrMissingColumn, c)
		}
	}
	return nil
}

// missingTokens are cell values read as missing, matching the NA markers
// spreadsheet exports and pandas write.
var missingTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// IsMissing reports whether a trimmed cell value marks a missing value.
func IsMissing(v string) bool {
	return v == "" || missingTokens[v]
}

// Get returns the trimmed value of col in row i. An absent column or a
// missing-value marker such as "NaN" or "N/A" reads as an empty value.
func (t *Table) Get(i int, col string) string {
	idx, ok := t.index[col]
	if !ok {
		return ""
	}
	v := strings.TrimSpace(t.Rows[i][idx])
	if missingTokens[v] {
		return ""
	}
	return v
}
