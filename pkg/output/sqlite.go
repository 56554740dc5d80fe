/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sqlite.go
Description: SQLite sink for the result table. Writes a "scores" table with row_id, text
and one REAL column per label, replacing any scores table already in the database.
*/

package output

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kleascm/byteclasser/pkg/aggregate"
	"github.com/kleascm/byteclasser/pkg/compression"
	_ "modernc.org/sqlite"
)

// SQLiteTable is the table the sqlite format writes.
const SQLiteTable = "scores"

func writeSQLite(path string, table *aggregate.Table) error {
	if path == compression.StdioPath {
		return errors.New("sqlite output needs a file path")
	}
	if compression.FromPath(path) != compression.CodecNone {
		return errors.New("sqlite output cannot be compressed")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(SQLiteTable)); err != nil {
		return fmt.Errorf("failed to drop old table: %w", err)
	}
	if _, err := tx.Exec(createTableSQL(table.Labels)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.Prepare(insertSQL(table.Labels))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(table.Labels)+2)
	for _, row := range table.Rows {
		args[0], args[1] = row.ID, row.Text
		for i, s := range row.Scores {
			args[i+2] = s
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", row.ID, err)
		}
	}

	return tx.Commit()
}

func createTableSQL(labels []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(SQLiteTable))
	b.WriteString(" (")
	b.WriteString(quoteIdent(aggregate.ColumnRowID))
	b.WriteString(" INTEGER PRIMARY KEY, ")
	b.WriteString(quoteIdent(aggregate.ColumnText))
	b.WriteString(" TEXT NOT NULL")
	for _, label := range labels {
		b.WriteString(", ")
		b.WriteString(quoteIdent(label))
		b.WriteString(" REAL NOT NULL")
	}
	b.WriteString(")")
	return b.String()
}

func insertSQL(labels []string) string {
	cols := make([]string, 0, len(labels)+2)
	cols = append(cols, quoteIdent(aggregate.ColumnRowID), quoteIdent(aggregate.ColumnText))
	for _, label := range labels {
		cols = append(cols, quoteIdent(label))
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(SQLiteTable), strings.Join(cols, ", "), marks)
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
