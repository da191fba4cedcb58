// Package workbook loads xlsx documents into a dense cell grid suitable for
// positional scanning. Merged regions are expanded so every covered
// coordinate carries the merged value, and each cell keeps both its display
// text and its raw stored value (day-count serials for date cells).
package workbook

import (
	"fmt"
	"io"
	"strings"

	"rehub/dealsub/internal/logging"

	"github.com/xuri/excelize/v2"
)

// Cell is one worksheet cell.
type Cell struct {
	// Text is the formatted display value, trimmed.
	Text string
	// Raw is the stored value, trimmed. Date cells appear here as their
	// day-count serial number.
	Raw string
}

// Sheet is a dense grid view of one worksheet.
type Sheet struct {
	Name  string
	Cells [][]Cell
}

// Load reads an xlsx document and returns its active worksheet as a Sheet.
func Load(r io.Reader, logger logging.Logger) (*Sheet, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		name = list[0]
	}

	sheet, err := readSheet(f, name)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded worksheet",
		logging.Field{Key: logging.FieldSheet, Value: name},
		logging.Field{Key: logging.FieldCount, Value: len(sheet.Cells)})
	return sheet, nil
}

func readSheet(f *excelize.File, name string) (*Sheet, error) {
	formatted, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet '%s': %w", name, err)
	}
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading raw values of sheet '%s': %w", name, err)
	}

	maxCol := 0
	for _, row := range formatted {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	for _, row := range raw {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	rows := len(formatted)
	if len(raw) > rows {
		rows = len(raw)
	}

	grid := make([][]Cell, rows)
	for i := range grid {
		grid[i] = make([]Cell, maxCol)
		if i < len(formatted) {
			for j, v := range formatted[i] {
				grid[i][j].Text = strings.TrimSpace(v)
			}
		}
		if i < len(raw) {
			for j, v := range raw[i] {
				grid[i][j].Raw = strings.TrimSpace(v)
			}
		}
	}

	if err := fillMergedRegions(f, name, grid); err != nil {
		return nil, err
	}

	return &Sheet{Name: name, Cells: grid}, nil
}

// fillMergedRegions copies each merged region's top-left value into every
// coordinate the region covers, so positional probes see the value a person
// sees in the spreadsheet.
func fillMergedRegions(f *excelize.File, name string, grid [][]Cell) error {
	merges, err := f.GetMergeCells(name)
	if err != nil {
		return fmt.Errorf("error reading merged cells of sheet '%s': %w", name, err)
	}

	for _, merge := range merges {
		text := strings.TrimSpace(merge.GetCellValue())

		start, end, ok := splitMergeRange(merge.GetStartAxis(), merge.GetEndAxis())
		if !ok {
			continue
		}

		rawValue, err := f.GetCellValue(name, merge.GetStartAxis(), excelize.Options{RawCellValue: true})
		if err != nil {
			rawValue = text
		}
		rawValue = strings.TrimSpace(rawValue)

		for r := start[1]; r <= end[1]; r++ {
			for c := start[0]; c <= end[0]; c++ {
				if r < len(grid) && c < len(grid[r]) {
					grid[r][c] = Cell{Text: text, Raw: rawValue}
				}
			}
		}
	}
	return nil
}

// splitMergeRange converts "B2","D3" axis names into zero-based [col,row]
// coordinate pairs.
func splitMergeRange(startAxis, endAxis string) (start, end [2]int, ok bool) {
	sc, sr, err := excelize.CellNameToCoordinates(startAxis)
	if err != nil {
		return start, end, false
	}
	ec, er, err := excelize.CellNameToCoordinates(endAxis)
	if err != nil {
		return start, end, false
	}
	return [2]int{sc - 1, sr - 1}, [2]int{ec - 1, er - 1}, true
}

// Rows returns the number of rows in the grid.
func (s *Sheet) Rows() int {
	return len(s.Cells)
}

// Cols returns the number of columns in the grid.
func (s *Sheet) Cols() int {
	if len(s.Cells) == 0 {
		return 0
	}
	return len(s.Cells[0])
}

// Text returns the display value at (row, col), or "" when out of range.
func (s *Sheet) Text(row, col int) string {
	if row < 0 || row >= len(s.Cells) || col < 0 || col >= len(s.Cells[row]) {
		return ""
	}
	return s.Cells[row][col].Text
}

// Raw returns the stored value at (row, col), or "" when out of range.
func (s *Sheet) Raw(row, col int) string {
	if row < 0 || row >= len(s.Cells) || col < 0 || col >= len(s.Cells[row]) {
		return ""
	}
	return s.Cells[row][col].Raw
}
