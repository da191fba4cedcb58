// Package locator finds the variable-position data block inside a
// semi-structured worksheet: a header row identified by a marker substring,
// an optional stop row identified by a second marker in a fixed column, and
// the contiguous data rows between them.
package locator

import (
	"strings"

	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/procerror"
	"rehub/dealsub/internal/workbook"
)

// Default anchors for the supported submission layout.
const (
	DefaultHeaderMarker = "AWG Item Code"
	DefaultStopMarker   = "manufacturer"
	DefaultStopColumn   = 1 // column B
)

// Locator scans a worksheet for the row boundaries of its data table.
type Locator struct {
	// HeaderMarker is matched case-sensitively as a substring of any cell.
	HeaderMarker string
	// StopMarker is matched case-insensitively as a substring of the cell in
	// StopColumn. No match means the table runs to the end of the sheet.
	StopMarker string
	StopColumn int

	logger logging.Logger
}

// New creates a Locator with the given anchors. Empty marker strings fall
// back to the defaults.
func New(headerMarker, stopMarker string, stopColumn int, logger logging.Logger) *Locator {
	if headerMarker == "" {
		headerMarker = DefaultHeaderMarker
	}
	if stopMarker == "" {
		stopMarker = DefaultStopMarker
	}
	if stopColumn < 0 {
		stopColumn = DefaultStopColumn
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Locator{
		HeaderMarker: headerMarker,
		StopMarker:   stopMarker,
		StopColumn:   stopColumn,
		logger:       logger,
	}
}

// NormalizeHeader collapses internal whitespace runs to single spaces and
// trims the ends. Idempotent.
func NormalizeHeader(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Locate finds the data block of the sheet and extracts its rows.
func (l *Locator) Locate(sheet *workbook.Sheet) (*models.Region, error) {
	headerRow, ok := l.findHeaderRow(sheet)
	if !ok {
		return nil, &procerror.StructureNotFoundError{Marker: l.HeaderMarker}
	}

	headersByCol := make(map[int]string)
	var headers []string
	for col := 0; col < sheet.Cols(); col++ {
		name := NormalizeHeader(sheet.Text(headerRow, col))
		if name == "" {
			continue
		}
		headersByCol[col] = name
		headers = append(headers, name)
	}

	stopRow := l.findStopRow(sheet, headerRow+1)
	end := stopRow
	if end < 0 {
		end = sheet.Rows()
	}

	var rows []models.ExtractedRow
	for r := headerRow + 1; r < end; r++ {
		row := l.extractRow(sheet, r, headersByCol)
		if row != nil {
			rows = append(rows, row)
		}
	}

	l.logger.Info("Located data region",
		logging.Field{Key: logging.FieldSheet, Value: sheet.Name},
		logging.Field{Key: logging.FieldRow, Value: headerRow},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	return &models.Region{
		Headers:   headers,
		Rows:      rows,
		HeaderRow: headerRow,
		StopRow:   stopRow,
	}, nil
}

func (l *Locator) findHeaderRow(sheet *workbook.Sheet) (int, bool) {
	for r := 0; r < sheet.Rows(); r++ {
		for c := 0; c < sheet.Cols(); c++ {
			if strings.Contains(sheet.Text(r, c), l.HeaderMarker) {
				return r, true
			}
		}
	}
	return 0, false
}

// findStopRow scans forward from startRow for the first row whose designated
// column contains the stop marker. Returns -1 when no stop row exists.
func (l *Locator) findStopRow(sheet *workbook.Sheet, startRow int) int {
	marker := strings.ToLower(l.StopMarker)
	for r := startRow; r < sheet.Rows(); r++ {
		cell := sheet.Text(r, l.StopColumn)
		if cell != "" && strings.Contains(strings.ToLower(cell), marker) {
			return r
		}
	}
	return -1
}

// extractRow reads one data row, keeping only columns with a valid header and
// values that are neither empty nor error ('#...') nor formula ('=...')
// sigils. Returns nil when nothing survives.
func (l *Locator) extractRow(sheet *workbook.Sheet, r int, headersByCol map[int]string) models.ExtractedRow {
	row := make(models.ExtractedRow)
	any := false
	// Column order matters: with duplicate header names the rightmost
	// column wins, same as reading the sheet left to right.
	for col := 0; col < sheet.Cols(); col++ {
		header, ok := headersByCol[col]
		if !ok {
			continue
		}
		value := sheet.Text(r, col)
		if value == "" {
			continue
		}
		if strings.HasPrefix(value, "#") || strings.HasPrefix(value, "=") {
			continue
		}
		row[header] = value
		any = true
	}
	if !any {
		return nil
	}
	return row
}
