package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rehub/dealsub/internal/config"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/procerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, f *excelize.File, sheet string, cells map[string]any) {
	t.Helper()
	for ref, value := range cells {
		require.NoError(t, f.SetCellValue(sheet, ref, value))
	}
}

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	rules := excelize.NewFile()
	require.NoError(t, rules.SetSheetName("Sheet1", "file_mapping_index"))
	writeSheet(t, rules, "file_mapping_index", map[string]any{
		"A1": "company", "B1": "file_name_pattern", "C1": "mapping_sheet_name", "D1": "description", "E1": "category",
		"A2": "Cosentino", "B2": "*cosentino*tpr*", "C2": "cosentino_tpr", "E2": "Deal Submissions",
	})
	_, err := rules.NewSheet("cosentino_tpr")
	require.NoError(t, err)
	writeSheet(t, rules, "cosentino_tpr", map[string]any{
		"A1": "input_column_name", "B1": "output_column_name", "C1": "transformation_rule",
		"A2": "AWG Item Code", "B2": "Item Id", "C2": "none",
		"A3": "Case Cost", "B3": "Unit Cost", "C3": "to_number:currency",
		"B4": "Ad Zone Id",
	})
	rulesPath := filepath.Join(dir, "mapping_rules.xlsx")
	require.NoError(t, rules.SaveAs(rulesPath))
	require.NoError(t, rules.Close())

	tmpl := excelize.NewFile()
	writeSheet(t, tmpl, "Sheet1", map[string]any{
		"A1": "Item Id", "B1": "Unit Cost", "C1": "Ad Zone Id",
	})
	tmplPath := filepath.Join(dir, "output_template.xlsx")
	require.NoError(t, tmpl.SaveAs(tmplPath))
	require.NoError(t, tmpl.Close())

	cfg := &config.Config{}
	cfg.Data.MappingRulesPath = rulesPath
	cfg.Data.OutputTemplatePath = tmplPath
	cfg.Extraction.HeaderMarker = "AWG Item Code"
	cfg.Extraction.StopMarker = "manufacturer"
	cfg.Extraction.StopColumn = 1
	return cfg
}

func submissionBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	writeSheet(t, f, "Sheet1", map[string]any{
		// Deal header labels above the table.
		"A1": "Deal Start Date", "C1": "09/01/25",
		"A2": "Manufacturer", "C2": "Cosentino",
		"A3": "TPR All Stores", "B3": "X",
		// Header row at grid index 5.
		"A6": "AWG Item Code", "B6": "Description", "C6": "Case Cost",
		"A7": "10045", "B7": "Granite", "C7": "$10.00",
		"A8": "10046", "B8": "Quartz", "C8": "$20.00",
		"A9": "10047", "B9": "Marble", "C9": "$30.00",
		// Stop marker in column B at grid index 9.
		"B10": "Manufacturer: Cosentino",
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestProcess(t *testing.T) {
	p := New(fixtureConfig(t), &logging.MockLogger{})

	result, err := p.Process(t.Context(), Request{
		FileName: "cosentino_tpr_sep.xlsx",
		Company:  "Cosentino",
		DealName: "Fall TPR",
		Content:  bytes.NewReader(submissionBytes(t)),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Item Id", "Unit Cost", "Ad Zone Id"}, result.Schema)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "10045", result.Rows[0]["Item Id"])
	assert.Equal(t, 10.0, result.Rows[0]["Unit Cost"])
	assert.Equal(t, "TPR All Stores", result.Rows[0]["Ad Zone Id"])

	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "Fall TPR", result.DealHeader.DealName)
	assert.Equal(t, "Cosentino", result.DealHeader.VendorID)
	assert.Equal(t, "09/01/25", result.DealHeader.DealStartDate)

	assert.Contains(t, result.TextSummary, "AWG Item Code header found at row 5")
	assert.Contains(t, result.TextSummary, "Manufacturer row found at row 9")
	assert.Contains(t, result.HTMLSummary, "Fall TPR")
}

func TestProcessUnknownCompanyFailsWholeRequest(t *testing.T) {
	p := New(fixtureConfig(t), &logging.MockLogger{})

	_, err := p.Process(t.Context(), Request{
		FileName: "acme.xlsx",
		Company:  "Acme",
		Content:  bytes.NewReader(submissionBytes(t)),
	})
	var missing *procerror.ConfigurationMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Acme", missing.Company)
}

func TestProcessMissingHeaderMarker(t *testing.T) {
	p := New(fixtureConfig(t), &logging.MockLogger{})

	f := excelize.NewFile()
	writeSheet(t, f, "Sheet1", map[string]any{"A1": "nothing to see"})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = p.Process(t.Context(), Request{
		FileName: "empty.xlsx",
		Company:  "Cosentino",
		Content:  buf,
	})
	var notFound *procerror.StructureNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCompanies(t *testing.T) {
	p := New(fixtureConfig(t), &logging.MockLogger{})

	companies, err := p.Companies()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cosentino"}, companies)
}

func TestDocumentCacheReloadsOnChange(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Data.CacheDocuments = true
	p := New(cfg, &logging.MockLogger{})

	first, err := p.loadRepository()
	require.NoError(t, err)
	second, err := p.loadRepository()
	require.NoError(t, err)
	assert.Same(t, first, second)

	// Bump the modification time; the next load re-parses.
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(cfg.Data.MappingRulesPath, future, future))

	third, err := p.loadRepository()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}
