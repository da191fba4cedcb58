package fieldscan

import (
	"bytes"
	"testing"
	"time"

	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/workbook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetFrom(t *testing.T, build func(f *excelize.File)) *workbook.Sheet {
	t.Helper()

	f := excelize.NewFile()
	build(f)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	sheet, err := workbook.Load(bytes.NewReader(buf.Bytes()), &logging.MockLogger{})
	require.NoError(t, err)
	return sheet
}

func set(t *testing.T, f *excelize.File, axis string, value any) {
	t.Helper()
	require.NoError(t, f.SetCellValue("Sheet1", axis, value))
}

func TestScanVendorTwoCellsRight(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "B3", "Manufacturer")
		set(t, f, "D3", "Acme Foods Inc")
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "Spring TPR")
	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "Spring TPR", result.DealHeader.DealName)
	assert.Equal(t, "Acme Foods Inc", result.DealHeader.VendorID)
}

func TestScanVendorFallbackProbe(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "Manufacturer")
		// C1 (offset 2) left empty; first non-empty right is F1.
		set(t, f, "F1", "Summit Brands")
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "Summit Brands", result.DealHeader.VendorID)
}

func TestScanVendorRejectsNeighboringLabel(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "Manufacturer")
		// The cell two to the right holds another anchor label. There is no
		// fallback in this case: the field stays empty.
		set(t, f, "C1", "Deal Start Date")
		set(t, f, "F1", "Would Be Vendor")
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "", result.DealHeader.VendorID)
}

func TestScanLastMatchWins(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "Manufacturer")
		set(t, f, "C1", "First Vendor")
		set(t, f, "A5", "manufacturer")
		set(t, f, "C5", "Second Vendor")
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	require.NotNil(t, result.DealHeader)
	// Every qualifying match overwrites: the later occurrence governs.
	assert.Equal(t, "Second Vendor", result.DealHeader.VendorID)
}

func TestScanDateFromNativeDateCell(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A2", "Deal Start Date:")
		set(t, f, "B2", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "03/15/24", result.DealHeader.DealStartDate)
}

func TestScanDateFromSerialNumber(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "Deal End Date")
		// 45292 is the day-count serial for 2024-01-01.
		set(t, f, "C1", 45292)
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "01/01/24", result.DealHeader.DealEndDate)
}

func TestScanDateTextFallsThroughVerbatim(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "Deal Cost Date")
		set(t, f, "D1", "TBD per buyer")
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "TBD per buyer", result.DealHeader.DealCostDate)
}

func TestScanDateTextNotReformatted(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "Deal Start Date")
		// Date-looking text stays exactly as typed; only native date cells
		// and day-count serials are formatted.
		set(t, f, "B1", "January 2, 2024")
		set(t, f, "A2", "Deal End Date")
		set(t, f, "B2", "2024-06-30")
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "January 2, 2024", result.DealHeader.DealStartDate)
	assert.Equal(t, "2024-06-30", result.DealHeader.DealEndDate)
}

func TestScanAllThreeDates(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "Deal Start Date")
		set(t, f, "B1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		set(t, f, "A2", "Deal End Date")
		set(t, f, "B2", time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
		set(t, f, "A3", "Deal Cost Date")
		set(t, f, "B3", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "Summer Promo")
	header := result.DealHeader
	require.NotNil(t, header)
	assert.Equal(t, "06/01/24", header.DealStartDate)
	assert.Equal(t, "06/30/24", header.DealEndDate)
	assert.Equal(t, "05/15/24", header.DealCostDate)
}

func TestScanZoneSelection(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "TPR All Stores")
		set(t, f, "C1", "X")
		set(t, f, "A2", "TPR Price Chopper")
		set(t, f, "D2", "x")
		set(t, f, "A3", "TPR Sunfresh/Apple")
		// No marker to the right: label stays unselected.
		set(t, f, "A4", "Tpr Markets")
		set(t, f, "B4", "no")
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	assert.Equal(t, "TPR All Stores ~TPR Price Chopper", result.ZoneSelection)
}

func TestScanZoneMarkerVariants(t *testing.T) {
	tests := []struct {
		name   string
		marker any
		want   string
	}{
		{name: "yes", marker: "yes", want: "TPR All Stores"},
		{name: "Y", marker: "Y", want: "TPR All Stores"},
		{name: "numeric one", marker: 1, want: "TPR All Stores"},
		{name: "true text", marker: "true", want: "TPR All Stores"},
		{name: "unchecked", marker: "no", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := sheetFrom(t, func(f *excelize.File) {
				set(t, f, "B2", "TPR All Stores")
				set(t, f, "E2", tt.marker)
			})
			result := New(&logging.MockLogger{}).Scan(sheet, "")
			assert.Equal(t, tt.want, result.ZoneSelection)
		})
	}
}

func TestScanZoneDeduplicates(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {
		set(t, f, "A1", "TPR All Stores")
		set(t, f, "B1", "X")
		set(t, f, "A5", "TPR All Stores")
		set(t, f, "B5", "X")
	})

	result := New(&logging.MockLogger{}).Scan(sheet, "")
	assert.Equal(t, "TPR All Stores", result.ZoneSelection)
}

func TestScanEmptySheet(t *testing.T) {
	sheet := sheetFrom(t, func(f *excelize.File) {})

	result := New(&logging.MockLogger{}).Scan(sheet, "Lonely Deal")
	require.NotNil(t, result.DealHeader)
	assert.Equal(t, "Lonely Deal", result.DealHeader.DealName)
	assert.Equal(t, "", result.DealHeader.VendorID)
	assert.Equal(t, "", result.ZoneSelection)
}
