package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matsen/dhnet/internal/dataset"
	_ "modernc.org/sqlite"
)

// openDB opens a SQLite database for the export.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	return db, nil
}

// quoteIdent quotes a SQLite identifier. Column names such as "member of"
// contain spaces.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// GenerateDDL generates a CREATE TABLE statement with one TEXT column per table column.
func GenerateDDL(name string, columns []string) string {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, quoteIdent(c)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quoteIdent(name), strings.Join(cols, ",\n  "))
}

// GenerateIndexDDL generates a CREATE INDEX statement for a column.
func GenerateIndexDDL(tableName, column string) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s(%s)",
		quoteIdent("idx_"+tableName+"_"+column), quoteIdent(tableName), quoteIdent(column))
}

// GenerateMetaTableDDL generates the _meta table DDL.
func GenerateMetaTableDDL() string {
	return `CREATE TABLE _meta (
  key TEXT PRIMARY KEY,
  value TEXT
)`
}

// WriteSQLite writes t into a new SQLite file at path, replacing any existing
// file. Every column is TEXT; empty cells are stored as NULL so ad hoc queries
// can use IS NULL. The id and kind columns are indexed when present.
func WriteSQLite(path string, t *dataset.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old database: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	name := t.Name
	if name == "" {
		name = CombinedName
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(GenerateDDL(name, t.Columns)); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	for _, col := range []string{dataset.ColID, KindColumn} {
		if t.HasColumn(col) {
			if _, err := tx.Exec(GenerateIndexDDL(name, col)); err != nil {
				return fmt.Errorf("creating index on %s: %w", col, err)
			}
		}
	}
	if _, err := tx.Exec(GenerateMetaTableDDL()); err != nil {
		return fmt.Errorf("creating meta table: %w", err)
	}

	quoted := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for i, row := range t.Rows {
		for j, v := range row {
			if v == "" {
				args[j] = nil
			} else {
				args[j] = v
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	meta := map[string]string{
		"table":       name,
		"rows":        fmt.Sprint(t.Len()),
		"exported_at": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO _meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("writing meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}
