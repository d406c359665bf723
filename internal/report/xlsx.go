// SPDX-License-Identifier: MIT
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet every batch run writes.
const SheetName = "pitch_shift_analysis"

// headers is the fixed column order of the report.
var headers = []string{
	"o_file", "ps_file", "length", "sample_rate", "target_freq",
	"o_med_freq", "ps_med_freq", "semitone_difference",
	"o_min_freq", "ps_min_freq", "o_max_freq", "ps_max_freq",
	"o_avg_freq", "ps_avg_freq",
}

func (r Record) row() []any {
	return []any{
		r.SourceFile, r.ShiftedFile, r.Length, r.SampleRate, r.TargetFreq,
		r.SourceMedian, r.ShiftedMedian, r.SemitoneDiff,
		r.SourceMin, r.ShiftedMin, r.SourceMax, r.ShiftedMax,
		r.SourceMean, r.ShiftedMean,
	}
}

// WriteXLSX persists the table to path as a single-sheet workbook, one row
// per record in insertion order. Column widths are sized to the longest
// value so the sheet opens readable. An empty table produces a header-only
// sheet.
func WriteXLSX(t Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, len(headers))
	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
		widths[i] = len(h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range t.records {
		row := rec.row()
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
		for c, v := range row {
			if n := len(fmt.Sprint(v)); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("column %d: %w", c, err)
		}
		if err := f.SetColWidth(SheetName, col, col, float64(w)+2); err != nil {
			return fmt.Errorf("size column %s: %w", col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
