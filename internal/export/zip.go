package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"rehub/dealsub/internal/models"
)

// BundleFileName is the default name of the download bundle.
const BundleFileName = "deal_submission_export.zip"

// Bundle builds a ZIP archive containing the standardized data CSV and, when
// a deal header was extracted, the deal summary CSV.
func Bundle(headers []string, rows []models.OutputRow, dealHeader *models.DealHeader) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	data, err := DataCSV(headers, rows)
	if err != nil {
		return nil, err
	}
	if err := writeEntry(zw, DataFileName, data); err != nil {
		return nil, err
	}

	if dealHeader != nil {
		summary, err := SummaryCSV(dealHeader)
		if err != nil {
			return nil, err
		}
		if err := writeEntry(zw, SummaryFileName, summary); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("error finalizing ZIP archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("error creating ZIP entry '%s': %w", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("error writing ZIP entry '%s': %w", name, err)
	}
	return nil
}
