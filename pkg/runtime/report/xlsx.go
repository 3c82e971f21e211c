package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
)

const SheetName = "Chargeback"

type ColumnConfig struct {
	Column string
	Width  float64
}

func DefaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{Column: "A", Width: 20},
		{Column: "B", Width: 20},
		{Column: "C", Width: 15},
		{Column: "D", Width: 20},
	}
}

// Writer renders chargeback reports into xlsx workbooks in a fixed directory.
type Writer struct {
	dir     string
	columns []ColumnConfig
}

// NewWriter writes into dir, or into the process working directory when dir is empty.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:     dir,
		columns: DefaultColumns(),
	}
}

// Render writes rows for period and returns the absolute path of the file.
// An existing file of the same name is overwritten.
func (w *Writer) Render(ctx context.Context, rows []domain.AggregateRow, period domain.Period) (string, error) {
	logger := zerolog.Ctx(ctx)

	dir := w.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", domain.NewWriteError(period.Label(), FileName(period), fmt.Errorf("resolve working directory: %w", err))
		}
		dir = wd
	}

	path, err := filepath.Abs(filepath.Join(dir, FileName(period)))
	if err != nil {
		return "", domain.NewWriteError(period.Label(), FileName(period), err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	if err := w.fill(f, NewDocument(rows)); err != nil {
		return "", domain.NewWriteError(period.Label(), path, err)
	}

	logger.Info().Str("file", path).Msg("saving chargeback report")
	if err := f.SaveAs(path); err != nil {
		return "", domain.NewWriteError(period.Label(), path, err)
	}

	return path, nil
}

func (w *Writer) fill(f *excelize.File, doc Document) error {
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for _, c := range w.columns {
		if err := f.SetColWidth(SheetName, c.Column, c.Column, c.Width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, record := range doc.Records() {
		if record == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetRowStyle(SheetName, len(doc.Rows)+3, len(doc.Rows)+3, bold); err != nil {
		return fmt.Errorf("style total: %w", err)
	}

	return nil
}
