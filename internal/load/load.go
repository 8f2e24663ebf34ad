// Package load persists the transformation output: the enriched listing
// table into SQLite (replace-on-write) and the derived tables into an XLSX
// workbook. A failure in one sink is fatal for that sink only; the other
// still attempts to complete, and the run result reflects partial success.
package load

import (
	"context"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/JDavidPC/bi-etl/internal/transform"
)

// Status summarises how the load stage ended.
type Status string

const (
	StatusFull    Status = "full"    // both sinks written and verified
	StatusPartial Status = "partial" // exactly one sink failed
	StatusFailed  Status = "failed"  // both sinks failed
)

// SinkResult is the outcome of one sink.
type SinkResult struct {
	Sink  string
	Rows  int
	Sheet int // sheets written, xlsx only
	Err   error
}

// Result is the outcome of the whole load stage.
type Result struct {
	SQLite SinkResult
	Excel  SinkResult
	Plan   []SheetInfo
}

// Status derives the stage status from the per-sink outcomes.
func (r *Result) Status() Status {
	switch {
	case r.SQLite.Err == nil && r.Excel.Err == nil:
		return StatusFull
	case r.SQLite.Err != nil && r.Excel.Err != nil:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Loader runs both sinks and the post-load verification.
type Loader struct {
	sqlite *SQLiteSink
	excel  *ExcelSink
	logger *slog.Logger
}

// NewLoader builds a Loader over the two sinks.
func NewLoader(sqlite *SQLiteSink, excel *ExcelSink, logger *slog.Logger) *Loader {
	return &Loader{sqlite: sqlite, excel: excel, logger: logger}
}

// Run writes every sink regardless of the other's outcome, then verifies
// whatever was written.
func (l *Loader) Run(ctx context.Context, out *transform.Output) *Result {
	result := &Result{
		SQLite: SinkResult{Sink: l.sqlite.Name()},
		Excel:  SinkResult{Sink: l.excel.Name()},
	}

	rows, err := l.sqlite.Write(ctx, out.Final)
	result.SQLite.Rows, result.SQLite.Err = rows, err
	if err != nil {
		l.logger.Error("relational sink failed", slog.String("error", err.Error()))
	}

	plan, err := l.excel.Write(out.SheetTables())
	result.Excel.Err = err
	if err != nil {
		l.logger.Error("workbook sink failed", slog.String("error", err.Error()))
	} else {
		result.Plan = plan
		result.Excel.Sheet = len(plan)
		for _, s := range plan {
			result.Excel.Rows += s.Rows
		}
	}

	l.verify(ctx, out, result)

	l.logger.Info("load completed", slog.String("status", string(result.Status())))
	return result
}

// verify re-opens the written artifacts and compares row counts against the
// in-memory tables. Mismatches are logged as warnings, not failures: the
// artifacts exist, they just need a human look.
func (l *Loader) verify(ctx context.Context, out *transform.Output, result *Result) {
	if result.SQLite.Err == nil {
		count, err := l.sqlite.Count(ctx, out.Final.Name)
		switch {
		case err != nil:
			l.logger.Warn("could not verify relational table", slog.String("error", err.Error()))
		case count != out.Final.RowCount():
			l.logger.Warn("relational row count mismatch",
				slog.Int("expected", out.Final.RowCount()),
				slog.Int("found", count))
		default:
			l.logger.Info("relational table verified", slog.Int("rows", count))
		}
	}

	if result.Excel.Err == nil {
		l.verifyWorkbook(out, result.Plan)
	}
}

func (l *Loader) verifyWorkbook(out *transform.Output, plan []SheetInfo) {
	f, err := excelize.OpenFile(l.excel.path)
	if err != nil {
		l.logger.Warn("could not verify workbook", slog.String("error", err.Error()))
		return
	}
	defer f.Close()

	expected := make(map[string]int)
	for _, t := range out.SheetTables() {
		expected[t.Name] = t.RowCount()
	}

	found := make(map[string]int)
	for _, s := range plan {
		rows, err := f.GetRows(s.Sheet)
		if err != nil {
			l.logger.Warn("sheet missing from workbook", slog.String("sheet", s.Sheet))
			return
		}
		dataRows := len(rows) - 1 // header
		if dataRows < 0 {
			dataRows = 0
		}
		if dataRows != s.Rows {
			l.logger.Warn("sheet row count mismatch",
				slog.String("sheet", s.Sheet),
				slog.Int("expected", s.Rows),
				slog.Int("found", dataRows))
			return
		}
		found[s.Table] += dataRows
	}

	for table, want := range expected {
		if found[table] != want {
			l.logger.Warn("workbook table row count mismatch",
				slog.String("table", table),
				slog.Int("expected", want),
				slog.Int("found", found[table]))
			return
		}
	}
	l.logger.Info("workbook verified", slog.Int("sheets", len(plan)))
}
