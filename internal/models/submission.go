// Package models defines the shared data structures of the deal submission
// standardization pipeline.
package models

import "rehub/dealsub/internal/transform"

// MappingIndexEntry identifies which sheet of mapping rules applies to a
// (company, category) pair. Loaded once per request from the mapping-rules
// document; immutable thereafter.
type MappingIndexEntry struct {
	Company         string
	FileNamePattern string
	MappingSheet    string
	Description     string
	Category        string
}

// InputNone is the sentinel input column name meaning "this output column has
// no direct source, its value is synthesized".
const InputNone = "N/A"

// ColumnMapping wires one detected input header to a destination column, with
// an optional transformation compiled at configuration-load time.
type ColumnMapping struct {
	InputColumn  string
	OutputColumn string
	Rule         transform.Rule
	Notes        string
}

// IsDirect reports whether the mapping draws from an input column.
func (m ColumnMapping) IsDirect() bool {
	return m.InputColumn != InputNone
}

// ExtractedRow maps normalized header names to raw cell values for one data
// row of the located region.
type ExtractedRow map[string]any

// OutputRow maps output schema column names to transformed values. Every
// schema column is present, defaulting to the empty string.
type OutputRow map[string]any

// DealHeader carries the scalar fields pulled from anywhere in the worksheet
// by label-proximity search. Fields stay empty when their anchor label is
// never found.
type DealHeader struct {
	DealName      string `json:"deal_name"`
	VendorID      string `json:"vendor_id"`
	DealStartDate string `json:"deal_start_date"`
	DealEndDate   string `json:"deal_end_date"`
	DealCostDate  string `json:"deal_cost_date"`
}

// Region describes the located data block of a worksheet. Row indices are
// zero-based grid positions; StopRow is -1 when extraction ran to the end of
// the sheet.
type Region struct {
	Headers   []string
	Rows      []ExtractedRow
	HeaderRow int
	StopRow   int
}

// Result is everything the processing pipeline hands to the serving layer.
type Result struct {
	Rows        []OutputRow
	Schema      []string
	TextSummary string
	HTMLSummary string
	Company     string
	DealHeader  *DealHeader
}
