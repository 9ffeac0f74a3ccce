// Package export writes reconciled tables to CSV, XLSX and SQLite.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/records"
)

// Format is an export file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatXLSX, FormatSQLite}

// ParseFormat parses a format name. Common aliases are accepted.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	}
	return "", errors.NewValidationError("format", name, "unsupported export format")
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.NewValidationError("out", path, "cannot infer export format without an extension")
	}
	return ParseFormat(ext)
}

// NamedTable is a table with the name it is exported under.
type NamedTable struct {
	Name  string
	Table records.Table
}

// Table names used for sheets and SQL tables.
const (
	TableJoined        = "joined"
	TableRegistrations = "registrations"
	TableEvaluations   = "evaluations"
)

// ResultTables returns the three tables of a result in export order.
func ResultTables(r *reconcile.Result) []NamedTable {
	return []NamedTable{
		{Name: TableJoined, Table: r.Joined},
		{Name: TableRegistrations, Table: r.Registrations},
		{Name: TableEvaluations, Table: r.Evaluations},
	}
}

// Export writes a result to path in the given format. CSV output contains
// only the joined table, with a BOM so spreadsheet tools detect UTF-8.
func Export(ctx context.Context, format Format, path string, r *reconcile.Result) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		return SaveCSV(path, r.Joined, WithBOM(true))
	case FormatXLSX:
		return WriteXLSX(path, ResultTables(r)...)
	case FormatSQLite:
		return WriteSQLite(ctx, path, ResultTables(r)...)
	}
	return errors.NewValidationError("format", format, fmt.Sprintf("supported formats are %v", Formats))
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	return nil
}
