// Package report renders the human-readable standardization summaries shown
// alongside the projected data: a plain-text digest and an HTML card.
package report

import (
	"fmt"
	"html/template"
	"strings"

	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/projector"
)

// Input carries everything a summary reports on.
type Input struct {
	Company      string
	FileName     string
	MappingSheet string
	// HeaderRow is the zero-based grid index of the located header row.
	HeaderRow int
	// StopRow is the zero-based stop-marker row, or -1 when extraction ran to
	// the end of the sheet.
	StopRow       int
	DataRows      int
	InputColumns  int
	OutputColumns int
	Stats         projector.Stats
	DealHeader    *models.DealHeader
}

// Generator renders summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a summary generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{logger: logger}
}

// Text renders the plain-text summary.
func (g *Generator) Text(in Input) string {
	stop := "End of sheet"
	if in.StopRow >= 0 {
		stop = fmt.Sprintf("Manufacturer row found at row %d", in.StopRow)
	}

	var b strings.Builder
	b.WriteString("FILE STANDARDIZATION SUMMARY\n\n")
	fmt.Fprintf(&b, "Company: %s\n", in.Company)
	fmt.Fprintf(&b, "Input File: %s\n", in.FileName)
	fmt.Fprintf(&b, "Mapping Sheet: %s\n", in.MappingSheet)
	fmt.Fprintf(&b, "Detection Method: AWG Item Code header found at row %d\n", in.HeaderRow)
	fmt.Fprintf(&b, "Stop Condition: %s\n\n", stop)
	b.WriteString("Row Counts:\n")
	fmt.Fprintf(&b, "- Total data rows extracted: %d\n", in.DataRows)
	fmt.Fprintf(&b, "- Input columns detected: %d\n", in.InputColumns)
	fmt.Fprintf(&b, "- Output columns mapped: %d\n\n", in.OutputColumns)
	b.WriteString("Column Mappings Applied:\n")
	fmt.Fprintf(&b, "%d direct mappings\n", in.Stats.Direct)
	fmt.Fprintf(&b, "%d derived/manual fields\n\n", in.Stats.Derived)
	b.WriteString("Transformation Rules:\n")
	fmt.Fprintf(&b, "%d transformations applied\n\n", in.Stats.Transformations)
	b.WriteString("Data Quality:\n")
	b.WriteString("- All rows validated\n")
	b.WriteString("- Empty rows removed\n")
	b.WriteString("- Error values (#DIV/0!) filtered out\n")
	return b.String()
}

// HTML renders the dark-theme HTML summary card.
func (g *Generator) HTML(in Input) (string, error) {
	var b strings.Builder
	if err := htmlSummary.Execute(&b, htmlData(in)); err != nil {
		g.logger.WithError(err).Error("Failed to render HTML summary")
		return "", fmt.Errorf("error rendering HTML summary: %w", err)
	}
	return b.String(), nil
}

type htmlView struct {
	Input
	DealName  string
	Vendor    string
	StartDate string
	EndDate   string
	CostDate  string
}

func htmlData(in Input) htmlView {
	v := htmlView{Input: in}
	if in.DealHeader != nil {
		v.DealName = orNA(in.DealHeader.DealName)
		v.Vendor = orNA(in.DealHeader.VendorID)
		v.StartDate = orNA(in.DealHeader.DealStartDate)
		v.EndDate = orNA(in.DealHeader.DealEndDate)
		v.CostDate = orNA(in.DealHeader.DealCostDate)
	}
	return v
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

var htmlSummary = template.Must(template.New("summary").Parse(`<div style="padding: 20px; background: #111827; border-radius: 8px; font-family: 'Inter', sans-serif; border: 1px solid #374151;">
    <h3 style="margin: 0 0 16px 0; color: #ffffff; font-size: 18px; font-weight: 600;">File Standardization Summary</h3>
{{if .DealHeader}}
    <div style="background: #1f2937; padding: 12px; border-radius: 6px; margin-bottom: 16px; border-left: 3px solid #10b981;">
        <div style="font-size: 14px; color: #ffffff; margin-bottom: 8px; font-weight: 600;">Deal Summary</div>
        <div style="font-size: 13px; color: #d1d5db; margin-bottom: 4px;"><strong>Deal Name:</strong> {{.DealName}}</div>
        <div style="font-size: 13px; color: #d1d5db; margin-bottom: 4px;"><strong>Vendor:</strong> {{.Vendor}}</div>
        <div style="font-size: 13px; color: #d1d5db; margin-bottom: 4px;"><strong>Start Date:</strong> {{.StartDate}}</div>
        <div style="font-size: 13px; color: #d1d5db; margin-bottom: 4px;"><strong>End Date:</strong> {{.EndDate}}</div>
        <div style="font-size: 13px; color: #d1d5db;"><strong>Cost Date:</strong> {{.CostDate}}</div>
    </div>
{{end}}
    <div style="display: grid; grid-template-columns: repeat(2, 1fr); gap: 16px; margin-bottom: 16px;">
        <div style="background: #1f2937; padding: 12px; border-radius: 6px; border-left: 3px solid #3b82f6;">
            <div style="font-size: 12px; color: #9ca3af; margin-bottom: 4px;">Company</div>
            <div style="font-size: 14px; color: #ffffff; font-weight: 500;">{{.Company}}</div>
        </div>
        <div style="background: #1f2937; padding: 12px; border-radius: 6px; border-left: 3px solid #10b981;">
            <div style="font-size: 12px; color: #9ca3af; margin-bottom: 4px;">Input File</div>
            <div style="font-size: 14px; color: #ffffff; font-weight: 500;">{{.FileName}}</div>
        </div>
        <div style="background: #1f2937; padding: 12px; border-radius: 6px; border-left: 3px solid #8b5cf6;">
            <div style="font-size: 12px; color: #9ca3af; margin-bottom: 4px;">Data Rows</div>
            <div style="font-size: 20px; color: #ffffff; font-weight: 600;">{{.DataRows}}</div>
        </div>
        <div style="background: #1f2937; padding: 12px; border-radius: 6px; border-left: 3px solid #f59e0b;">
            <div style="font-size: 12px; color: #9ca3af; margin-bottom: 4px;">Columns Mapped</div>
            <div style="font-size: 20px; color: #ffffff; font-weight: 600;">{{.OutputColumns}}</div>
        </div>
    </div>
    <div style="background: #1f2937; padding: 12px; border-radius: 6px;">
        <div style="font-size: 12px; color: #9ca3af; margin-bottom: 8px; font-weight: 500;">Processing Summary</div>
        <div style="font-size: 13px; color: #d1d5db; margin-bottom: 4px;">&#10003; {{.Stats.Direct}} direct column mappings applied</div>
        <div style="font-size: 13px; color: #d1d5db; margin-bottom: 4px;">&#10003; {{.Stats.Transformations}} data transformations executed</div>
        <div style="font-size: 13px; color: #d1d5db; margin-bottom: 4px;">&#10003; Empty rows and error values filtered</div>
        <div style="font-size: 13px; color: #d1d5db;">&#10003; Data validated against output template</div>
    </div>
</div>`))
