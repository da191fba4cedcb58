// Package fieldscan extracts the deal-header scalar fields and the zone
// selection from anywhere in a worksheet by label-proximity search: a
// row-major scan tests every cell against a fixed priority order of label
// predicates, and a match triggers a bounded probe of the cells to its right.
package fieldscan

import (
	"fmt"
	"strconv"
	"strings"

	"rehub/dealsub/internal/dateutils"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/procerror"
	"rehub/dealsub/internal/workbook"
)

// Probe bounds for each field family.
const (
	vendorProbeOffset   = 2
	vendorFallbackLimit = 9
	dateProbeLimit      = 11
	zoneProbeLimit      = 15
)

const vendorLabel = "manufacturer"

// otherLabels filters vendor probe candidates: a value that is itself one of
// these labels is a neighboring anchor, not a vendor id.
var otherLabels = map[string]struct{}{
	"deal start date": {},
	"deal end date":   {},
	"deal cost date":  {},
	"broker":          {},
	"sales rep":       {},
}

// zoneLabel pairs the lowercase match text with the canonical display string
// recorded in the zone selection.
type zoneLabel struct {
	match   string
	display string
}

// zoneLabels are checked per cell in this priority order; the first match
// short-circuits the remaining labels for that cell.
var zoneLabels = []zoneLabel{
	{match: "tpr all stores", display: "TPR All Stores"},
	{match: "tpr price chopper", display: "TPR Price Chopper"},
	{match: "tpr sunfresh/apple", display: "TPR Sunfresh/Apple"},
	{match: "tpr markets", display: "Tpr Markets"},
	{match: "tpr stores with prebooks only", display: "TPR Stores with Prebooks only"},
}

// zoneMarkers are the cell values that count as a checked box.
var zoneMarkers = map[string]struct{}{
	"X": {}, "YES": {}, "Y": {}, "1": {}, "TRUE": {},
}

// Extraction is the accumulated result of one full-sheet scan.
type Extraction struct {
	// DealHeader is nil when the scan failed entirely.
	DealHeader *models.DealHeader
	// ZoneSelection is the " ~"-joined set of matched zone labels in the
	// order they were discovered, empty when none matched.
	ZoneSelection string
}

// Scanner performs the label-anchored extraction.
type Scanner struct {
	logger logging.Logger
}

// New creates a Scanner.
func New(logger logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Scanner{logger: logger}
}

// Scan walks the sheet row-major, top to bottom and left to right, folding
// matches into an accumulator. Each field is re-checked and overwritten on
// every subsequent qualifying match, so the last match in scan order wins.
// The whole extraction is best-effort: any internal failure is logged and
// yields a nil DealHeader and empty ZoneSelection instead of an error.
func (s *Scanner) Scan(sheet *workbook.Sheet, dealName string) (result Extraction) {
	defer func() {
		if r := recover(); r != nil {
			err := &procerror.FieldExtractionError{Field: "deal_header", Err: fmt.Errorf("%v", r)}
			s.logger.WithError(err).Error("Field extraction failed, continuing without deal header")
			result = Extraction{}
		}
	}()

	header := models.DealHeader{DealName: dealName}
	var zones []string
	zoneSeen := make(map[string]struct{})

	for r := 0; r < sheet.Rows(); r++ {
		for c := 0; c < sheet.Cols(); c++ {
			text := sheet.Text(r, c)
			if text == "" {
				continue
			}
			lower := strings.ToLower(text)

			// A cell satisfies at most one predicate, checked in fixed
			// priority order.
			switch {
			case lower == vendorLabel:
				if vendor, ok := s.probeVendor(sheet, r, c); ok {
					header.VendorID = vendor
				}
			case strings.Contains(lower, "deal start date"):
				if date, ok := s.probeDate(sheet, r, c); ok {
					header.DealStartDate = date
				}
			case strings.Contains(lower, "deal end date"):
				if date, ok := s.probeDate(sheet, r, c); ok {
					header.DealEndDate = date
				}
			case strings.Contains(lower, "deal cost date"):
				if date, ok := s.probeDate(sheet, r, c); ok {
					header.DealCostDate = date
				}
			default:
				for _, zl := range zoneLabels {
					if !strings.Contains(lower, zl.match) {
						continue
					}
					if s.probeZoneMarker(sheet, r, c) {
						if _, dup := zoneSeen[zl.display]; !dup {
							zoneSeen[zl.display] = struct{}{}
							zones = append(zones, zl.display)
							s.logger.Info("Found marked zone",
								logging.Field{Key: logging.FieldLabel, Value: zl.display},
								logging.Field{Key: logging.FieldRow, Value: r})
						}
					}
					break // first matching label claims the cell
				}
			}
		}
	}

	s.logger.Info("Extracted deal header",
		logging.Field{Key: "vendor_id", Value: header.VendorID},
		logging.Field{Key: "zones", Value: len(zones)})

	return Extraction{
		DealHeader:    &header,
		ZoneSelection: strings.Join(zones, " ~"),
	}
}

// probeVendor reads the cell two columns right of the label. A non-empty
// value there is accepted only when it is not itself another anchor label;
// only when that specific cell is empty does the probe fall back to scanning
// offsets 1..9 for the first acceptable value.
func (s *Scanner) probeVendor(sheet *workbook.Sheet, row, col int) (string, bool) {
	direct := sheet.Text(row, col+vendorProbeOffset)
	if direct != "" {
		if !isOtherLabel(direct) {
			return direct, true
		}
		return "", false
	}

	for offset := 1; offset < vendorFallbackLimit+1; offset++ {
		candidate := sheet.Text(row, col+offset)
		if candidate == "" {
			continue
		}
		if !isOtherLabel(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// probeDate scans offsets 1..11 right of a date label for the first non-empty
// cell. Native date values surface as day-count serials in the raw grid and
// are formatted MM/DD/YY; anything non-numeric is accepted verbatim as text.
// Serial arithmetic failures skip the candidate and continue probing.
func (s *Scanner) probeDate(sheet *workbook.Sheet, row, col int) (string, bool) {
	for offset := 1; offset < dateProbeLimit+1; offset++ {
		raw := sheet.Raw(row, col+offset)
		if raw == "" {
			continue
		}

		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			t, err := dateutils.FromSerial(serial)
			if err != nil {
				s.logger.WithError(err).Debug("Serial date conversion failed, continuing probe",
					logging.Field{Key: logging.FieldRow, Value: row},
					logging.Field{Key: logging.FieldColumn, Value: col + offset})
				continue
			}
			return dateutils.ToShortUS(t), true
		}

		return raw, true
	}
	return "", false
}

// probeZoneMarker scans offsets 1..15 right of a zone label for a checked-box
// marker value.
func (s *Scanner) probeZoneMarker(sheet *workbook.Sheet, row, col int) bool {
	for offset := 1; offset < zoneProbeLimit+1; offset++ {
		value := sheet.Text(row, col+offset)
		if value == "" {
			continue
		}
		if _, ok := zoneMarkers[strings.ToUpper(value)]; ok {
			return true
		}
	}
	return false
}

func isOtherLabel(value string) bool {
	_, ok := otherLabels[strings.ToLower(value)]
	return ok
}
