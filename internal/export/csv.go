// Package export serializes processing results for download and email
// attachment: the standardized data CSV, the deal summary CSV, and a ZIP
// bundle of both.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/transform"

	"github.com/gocarina/gocsv"
)

// DataFileName is the standardized data CSV entry name.
const DataFileName = "standardized_data.csv"

// SummaryFileName is the deal summary CSV entry name.
const SummaryFileName = "deal_summary.csv"

// SummaryField is one Field/Value line of the deal summary CSV.
type SummaryField struct {
	Field string `csv:"Field"`
	Value string `csv:"Value"`
}

// DataCSV renders the projected rows as CSV, columns in schema order. Values
// containing commas or quotes are quoted and escaped; falsy values render as
// empty cells.
func DataCSV(headers []string, rows []models.OutputRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("error writing CSV header: %w", err)
	}

	record := make([]string, len(headers))
	for _, row := range rows {
		for i, header := range headers {
			record[i] = cellString(row[header])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryCSV renders the deal header as a two-column Field/Value CSV.
func SummaryCSV(header *models.DealHeader) ([]byte, error) {
	fields := []*SummaryField{
		{Field: "Deal Name", Value: header.DealName},
		{Field: "Vendor", Value: header.VendorID},
		{Field: "Start Date", Value: header.DealStartDate},
		{Field: "End Date", Value: header.DealEndDate},
		{Field: "Cost Date", Value: header.DealCostDate},
	}

	out, err := gocsv.MarshalBytes(&fields)
	if err != nil {
		return nil, fmt.Errorf("error marshaling deal summary CSV: %w", err)
	}
	return out, nil
}

// cellString renders one cell. Falsy values (nil, empty string, zero numbers)
// render empty so downstream spreadsheets show blank cells instead of zeros.
func cellString(value any) string {
	if !transform.Truthy(value) {
		return ""
	}
	return transform.Stringify(value)
}
