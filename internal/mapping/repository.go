// Package mapping loads the mapping-rules and output-template documents: the
// company index, the per-sheet column mappings, and the output schema.
package mapping

import (
	"fmt"
	"sort"
	"strings"

	"rehub/dealsub/internal/locator"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/procerror"
	"rehub/dealsub/internal/transform"

	"github.com/xuri/excelize/v2"
)

// IndexSheet is the fixed sheet holding the company/category index.
const IndexSheet = "file_mapping_index"

// DefaultCategory is the category deal submission uploads resolve against.
const DefaultCategory = "Deal Submissions"

// Repository holds the parsed mapping-rules document.
type Repository struct {
	Index []models.MappingIndexEntry

	sheets map[string][][]string
	logger logging.Logger
}

// Load reads the mapping-rules document from disk.
func Load(path string, logger logging.Logger) (*Repository, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &procerror.ConfigurationMissingError{Document: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close mapping rules document")
		}
	}()

	repo := &Repository{
		sheets: make(map[string][][]string),
		logger: logger,
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("error reading mapping sheet '%s': %w", name, err)
		}
		if name == IndexSheet {
			repo.Index = parseIndex(rows)
			continue
		}
		repo.sheets[name] = rows
	}

	if repo.Index == nil {
		return nil, &procerror.ConfigurationMissingError{
			Document: path,
			Err:      fmt.Errorf("sheet '%s' not found", IndexSheet),
		}
	}

	logger.Info("Loaded mapping rules",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(repo.Index)})
	return repo, nil
}

// parseIndex reads the index sheet, skipping the header row and rows without
// a company.
func parseIndex(rows [][]string) []models.MappingIndexEntry {
	entries := []models.MappingIndexEntry{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cellAt(row, 0) == "" {
			continue
		}
		entries = append(entries, models.MappingIndexEntry{
			Company:         cellAt(row, 0),
			FileNamePattern: strings.ToLower(cellAt(row, 1)),
			MappingSheet:    cellAt(row, 2),
			Description:     cellAt(row, 3),
			Category:        cellAt(row, 4),
		})
	}
	return entries
}

// Resolve returns the mapping sheet name of the first index entry whose
// company and category both match exactly (case-sensitive). No match is a
// configuration error, not something to retry.
func (r *Repository) Resolve(company, category string) (string, error) {
	for _, entry := range r.Index {
		if entry.Company == company && entry.Category == category {
			return entry.MappingSheet, nil
		}
	}
	return "", &procerror.ConfigurationMissingError{Company: company, Category: category}
}

// ColumnsFor reads every row of the named mapping sheet where at least one of
// input/output name is present. Sparse sheets are expected: rows with neither
// are skipped, a missing sheet yields an empty list. Transformation rules are
// compiled here so unknown rules warn at load time.
func (r *Repository) ColumnsFor(sheetName string) []models.ColumnMapping {
	rows, ok := r.sheets[sheetName]
	if !ok {
		r.logger.Warn("Mapping sheet not found in rules document",
			logging.Field{Key: logging.FieldSheet, Value: sheetName})
		return nil
	}

	var mappings []models.ColumnMapping
	for i, row := range rows {
		if i == 0 {
			continue
		}
		input := locator.NormalizeHeader(cellAt(row, 0))
		output := cellAt(row, 1)
		if input == "" && output == "" {
			continue
		}
		if input == "" {
			input = models.InputNone
		}
		rule := cellAt(row, 2)
		if rule == "" {
			rule = "none"
		}
		mappings = append(mappings, models.ColumnMapping{
			InputColumn:  input,
			OutputColumn: output,
			Rule:         transform.Compile(rule, r.logger),
			Notes:        cellAt(row, 3),
		})
	}

	r.logger.Info("Loaded column mappings",
		logging.Field{Key: logging.FieldSheet, Value: sheetName},
		logging.Field{Key: logging.FieldCount, Value: len(mappings)})
	return mappings
}

// Companies returns the distinct company names of the index, sorted.
func (r *Repository) Companies() []string {
	seen := make(map[string]struct{})
	var companies []string
	for _, entry := range r.Index {
		if _, ok := seen[entry.Company]; ok {
			continue
		}
		seen[entry.Company] = struct{}{}
		companies = append(companies, entry.Company)
	}
	sort.Strings(companies)
	return companies
}

// LoadOutputSchema reads the output schema from the template document: the
// ordered non-empty cells of the first sheet's first row.
func LoadOutputSchema(path string, logger logging.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &procerror.ConfigurationMissingError{Document: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close output template document")
		}
	}()

	list := f.GetSheetList()
	if len(list) == 0 {
		return nil, &procerror.ConfigurationMissingError{
			Document: path,
			Err:      fmt.Errorf("template has no sheets"),
		}
	}

	rows, err := f.GetRows(list[0])
	if err != nil {
		return nil, fmt.Errorf("error reading template sheet '%s': %w", list[0], err)
	}
	if len(rows) == 0 {
		return nil, &procerror.ConfigurationMissingError{
			Document: path,
			Err:      fmt.Errorf("template sheet '%s' has no header row", list[0]),
		}
	}

	var schema []string
	for _, cell := range rows[0] {
		if v := strings.TrimSpace(cell); v != "" {
			schema = append(schema, v)
		}
	}

	logger.Info("Loaded output schema",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(schema)})
	return schema, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
