package load

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/JDavidPC/bi-etl/internal/dataset"
	pipeerrors "github.com/JDavidPC/bi-etl/internal/errors"
)

// SQLiteSink persists a table into a SQLite database file with
// replace-on-write semantics: any prior table of the same name is dropped.
type SQLiteSink struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteSink creates a sink writing to the database file at path.
func NewSQLiteSink(path string, logger *slog.Logger) *SQLiteSink {
	return &SQLiteSink{path: path, logger: logger}
}

// Name identifies the sink in logs and errors.
func (s *SQLiteSink) Name() string { return "sqlite" }

// Write replaces the table and inserts all rows in one transaction,
// returning the inserted row count.
func (s *SQLiteSink) Write(ctx context.Context, table *dataset.Table) (int, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return 0, pipeerrors.NewSinkWriteError(s.Name(), err)
	}
	defer db.Close()

	if err := s.writeTable(ctx, db, table); err != nil {
		return 0, pipeerrors.NewSinkWriteError(s.Name(), err)
	}

	s.logger.Info("relational table written",
		slog.String("path", s.path),
		slog.String("table", table.Name),
		slog.Int("rows", table.RowCount()))
	return table.RowCount(), nil
}

func (s *SQLiteSink) writeTable(ctx context.Context, db *sql.DB, table *dataset.Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(table.Name))); err != nil {
		return fmt.Errorf("failed to drop prior table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(table))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range table.Rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Count re-opens the database and counts the rows of the named table. Used
// by post-load verification.
func (s *SQLiteSink) Count(ctx context.Context, tableName string) (int, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer db.Close()

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(tableName))
	if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", tableName, err)
	}
	return count, nil
}

func createTableSQL(table *dataset.Table) string {
	types := table.ColumnTypes()
	cols := make([]string, len(table.Columns))
	for i, name := range table.Columns {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(name), types[i])
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table.Name), strings.Join(cols, ", "))
}

func insertSQL(table *dataset.Table) string {
	cols := make([]string, len(table.Columns))
	marks := make([]string, len(table.Columns))
	for i, name := range table.Columns {
		cols[i] = quoteIdent(name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
