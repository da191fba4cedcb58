package workbook

import (
	"bytes"
	"testing"

	"rehub/dealsub/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, build func(f *excelize.File)) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	build(f)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestLoadBasicGrid(t *testing.T) {
	r := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "  Item  Code "))
		require.NoError(t, f.SetCellValue("Sheet1", "B1", "Price"))
		require.NoError(t, f.SetCellValue("Sheet1", "A2", "1001"))
		require.NoError(t, f.SetCellValue("Sheet1", "C2", 4.5))
	})

	sheet, err := Load(r, &logging.MockLogger{})
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, 2, sheet.Rows())
	assert.Equal(t, 3, sheet.Cols())

	// Cell text is trimmed; internal whitespace is preserved here
	// (normalization is the locator's job).
	assert.Equal(t, "Item  Code", sheet.Text(0, 0))
	assert.Equal(t, "Price", sheet.Text(0, 1))
	assert.Equal(t, "1001", sheet.Text(1, 0))
	assert.Equal(t, "4.5", sheet.Text(1, 2))
}

func TestLoadMergedRegion(t *testing.T) {
	r := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "TPR All Stores"))
		require.NoError(t, f.MergeCell("Sheet1", "A1", "C1"))
		require.NoError(t, f.SetCellValue("Sheet1", "D1", "X"))
	})

	sheet, err := Load(r, &logging.MockLogger{})
	require.NoError(t, err)

	// The merged label is visible at every covered coordinate.
	assert.Equal(t, "TPR All Stores", sheet.Text(0, 0))
	assert.Equal(t, "TPR All Stores", sheet.Text(0, 1))
	assert.Equal(t, "TPR All Stores", sheet.Text(0, 2))
	assert.Equal(t, "X", sheet.Text(0, 3))
}

func TestTextAndRawOutOfRange(t *testing.T) {
	r := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "only"))
	})

	sheet, err := Load(r, &logging.MockLogger{})
	require.NoError(t, err)

	assert.Equal(t, "", sheet.Text(-1, 0))
	assert.Equal(t, "", sheet.Text(0, 99))
	assert.Equal(t, "", sheet.Raw(99, 0))
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not an xlsx document")), &logging.MockLogger{})
	assert.Error(t, err)
}
