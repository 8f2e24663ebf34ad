package load

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/JDavidPC/bi-etl/internal/dataset"
	pipeerrors "github.com/JDavidPC/bi-etl/internal/errors"
)

// ExcelSink writes tables into one XLSX workbook, one sheet per table. A
// table whose row count exceeds the per-sheet cap is split into consecutive
// chunks written to successively numbered sheets (name, name_2, ...), each
// chunk repeating the header and preserving the original row order.
type ExcelSink struct {
	path    string
	maxRows int
	logger  *slog.Logger
}

// SheetInfo records one written sheet: the table it came from, the final
// sheet name and the data-row count. The loader uses it for verification.
type SheetInfo struct {
	Table string
	Sheet string
	Rows  int
}

// NewExcelSink creates a sink writing a workbook at path with at most
// maxRows data rows per sheet.
func NewExcelSink(path string, maxRows int, logger *slog.Logger) *ExcelSink {
	return &ExcelSink{path: path, maxRows: maxRows, logger: logger}
}

// Name identifies the sink in logs and errors.
func (s *ExcelSink) Name() string { return "xlsx" }

// Write writes all tables and saves the workbook, returning the sheet plan.
func (s *ExcelSink) Write(tables []*dataset.Table) ([]SheetInfo, error) {
	f := excelize.NewFile()
	defer f.Close()

	namer := newSheetNamer()
	first := true
	addSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		_, err := f.NewSheet(name)
		return err
	}

	var plan []SheetInfo
	for _, table := range tables {
		sheets, err := s.writeTable(f, table, namer, addSheet)
		if err != nil {
			return nil, pipeerrors.NewSinkWriteError(s.Name(), err)
		}
		plan = append(plan, sheets...)
	}

	if err := f.SaveAs(s.path); err != nil {
		return nil, pipeerrors.NewSinkWriteError(s.Name(), err)
	}

	s.logger.Info("workbook written",
		slog.String("path", s.path),
		slog.Int("sheets", len(plan)))
	return plan, nil
}

func (s *ExcelSink) writeTable(f *excelize.File, table *dataset.Table, namer *sheetNamer, addSheet func(string) error) ([]SheetInfo, error) {
	if table.Empty() {
		name := namer.unique(table.Name + "_sin_datos")
		if err := addSheet(name); err != nil {
			return nil, err
		}
		if err := writeHeader(f, name, table.Columns); err != nil {
			return nil, err
		}
		s.logger.Warn("table has no rows; header-only sheet written",
			slog.String("table", table.Name),
			slog.String("sheet", name))
		return []SheetInfo{{Table: table.Name, Sheet: name, Rows: 0}}, nil
	}

	chunks := table.Chunks(s.maxRows)
	if len(chunks) > 1 {
		s.logger.Warn("table exceeds per-sheet row cap; splitting",
			slog.String("table", table.Name),
			slog.Int("rows", table.RowCount()),
			slog.Int("max_rows", s.maxRows),
			slog.Int("sheets", len(chunks)))
	}

	sheets := make([]SheetInfo, 0, len(chunks))
	for i, chunk := range chunks {
		base := table.Name
		if i > 0 {
			base = fmt.Sprintf("%s_%d", table.Name, i+1)
		}
		name := namer.unique(base)
		if err := addSheet(name); err != nil {
			return nil, err
		}
		if err := writeHeader(f, name, table.Columns); err != nil {
			return nil, err
		}
		for r, row := range chunk {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write row %d of sheet %s: %w", r, name, err)
			}
		}
		sheets = append(sheets, SheetInfo{Table: table.Name, Sheet: name, Rows: len(chunk)})
	}
	return sheets, nil
}

func writeHeader(f *excelize.File, sheet string, columns []string) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of sheet %s: %w", sheet, err)
	}
	return nil
}

// sheetNamer produces valid, unique worksheet names: at most 31 characters,
// awkward characters replaced, duplicates suffixed.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]bool)}
}

// MaxSheetNameLength is the workbook format's hard limit on sheet names.
const MaxSheetNameLength = 31

func (n *sheetNamer) unique(name string) string {
	sanitized := sanitizeSheetName(name)

	candidate := sanitized
	for counter := 1; n.used[candidate]; counter++ {
		suffix := fmt.Sprintf("_%d", counter)
		trimmed := sanitized
		if len(trimmed)+len(suffix) > MaxSheetNameLength {
			trimmed = trimmed[:MaxSheetNameLength-len(suffix)]
		}
		candidate = trimmed + suffix
	}
	n.used[candidate] = true
	return candidate
}

func sanitizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	sanitized := strings.TrimSpace(b.String())
	if sanitized == "" {
		sanitized = "Sheet"
	}
	if len(sanitized) > MaxSheetNameLength {
		sanitized = sanitized[:MaxSheetNameLength]
	}
	return sanitized
}
