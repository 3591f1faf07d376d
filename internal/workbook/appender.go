// Package workbook maintains the "Submissions" spreadsheet.
//
// An xlsx file cannot be appended to in place, so every append reads the
// whole workbook, adds rows in memory and rewrites the file. The rewrite goes
// to a temporary file that is renamed over the destination, so readers see
// either the old or the new workbook and never a partial one. Appends are
// serialized with an in-process mutex; running several processes against the
// same file is not supported.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/export"
)

// SheetName is the worksheet holding one row per submission.
const SheetName = "Submissions"

// ContentType is the media type of the workbook download.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var columnWidths = []float64{25, 20, 30, 24, 50, 16, 12, 24}

// Appender appends request rows to a workbook on disk.
type Appender struct {
	path string
	mu   sync.Mutex
}

// NewAppender returns an Appender writing to path.
func NewAppender(path string) *Appender {
	return &Appender{path: path}
}

// Path returns the workbook location.
func (a *Appender) Path() string {
	return a.path
}

// Exists reports whether the workbook has been written at least once.
func (a *Appender) Exists() bool {
	_, err := os.Stat(a.path)
	return err == nil
}

// Append adds one row per record beneath the existing rows, creating the
// directory, workbook, sheet and styled header when missing.
func (a *Appender) Append(ctx context.Context, records ...domain.Request) error {
	if len(records) == 0 {
		return nil
	}
	if err := a.lock(ctx); err != nil {
		return err
	}
	defer a.unlock()

	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	next, err := nextRow(f)
	if err != nil {
		return err
	}

	dataStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Family: "Calibri", Size: 11}})
	if err != nil {
		return fmt.Errorf("create row style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(export.Columns))

	for i := range records {
		row := export.Row(records[i])
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, next)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", next, err)
		}
		if err := f.SetCellStyle(SheetName, cell, fmt.Sprintf("%s%d", lastCol, next), dataStyle); err != nil {
			return fmt.Errorf("style row %d: %w", next, err)
		}
		next++
	}

	return a.save(f)
}

// ReadAll returns the current workbook bytes, or an error wrapping
// os.ErrNotExist when nothing has been appended yet.
func (a *Appender) ReadAll(ctx context.Context) ([]byte, error) {
	if err := a.lock(ctx); err != nil {
		return nil, err
	}
	defer a.unlock()

	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	return data, nil
}

func (a *Appender) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	return nil
}

func (a *Appender) unlock() {
	a.mu.Unlock()
}

// open loads the workbook or creates a fresh one, making sure the sheet exists.
func (a *Appender) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(a.path)
	switch {
	case err == nil:
		idx, err := f.GetSheetIndex(SheetName)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("inspect workbook: %w", err)
		}
		if idx == -1 {
			if _, err := f.NewSheet(SheetName); err != nil {
				f.Close() //nolint:errcheck
				return nil, fmt.Errorf("add sheet: %w", err)
			}
			if err := writeHeader(f); err != nil {
				f.Close() //nolint:errcheck
				return nil, err
			}
		}
		return f, nil
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
			return nil, fmt.Errorf("create workbook dir: %w", err)
		}
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("name sheet: %w", err)
		}
		if err := writeHeader(f); err != nil {
			f.Close() //nolint:errcheck
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("open workbook: %w", err)
	}
}

func writeHeader(f *excelize.File) error {
	header := make([]interface{}, len(export.Columns))
	for i, col := range export.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Calibri", Size: 11, Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"6C63FF"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(export.Columns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetRowHeight(SheetName, 1, 24); err != nil {
		return fmt.Errorf("header height: %w", err)
	}
	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	return nil
}

// nextRow returns the 1-based index of the first row after existing data,
// restoring the header on an empty sheet.
func nextRow(f *excelize.File) (int, error) {
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return 0, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		if err := writeHeader(f); err != nil {
			return 0, err
		}
		return 2, nil
	}
	return len(rows) + 1, nil
}

func (a *Appender) save(f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(a.path), ".workbook-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if err := f.Write(tmp); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}
