package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/haccpkit/haccp/pkg/errors"
)

// WriteSQLite writes each table to a SQLite database at path, replacing
// tables of the same name. Columns are TEXT named by canonical attribute;
// null cells are stored as NULL. All tables are written in one transaction.
func WriteSQLite(ctx context.Context, path string, tables ...NamedTable) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return errors.WrapResource("open", "sqlite", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "sqlite", path, err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, nt := range tables {
		if err := writeTable(ctx, tx, nt); err != nil {
			return errors.WrapResource("export", "sqlite", nt.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapResource("commit", "sqlite", path, err)
	}
	return nil
}

func writeTable(ctx context.Context, tx *sql.Tx, nt NamedTable) error {
	columns := nt.Table.Columns()
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c) + " TEXT"
	}

	table := quoteIdent(nt.Name)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(quoted, ", "))); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, placeholders))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for _, row := range nt.Table.Rows() {
		for i, v := range row {
			if v == "" {
				args[i] = nil
			} else {
				args[i] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
