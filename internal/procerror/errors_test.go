package procerror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructureNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructureNotFoundError
		expected string
	}{
		{
			name:     "marker only",
			err:      &StructureNotFoundError{Marker: "AWG Item Code"},
			expected: "worksheet structure not found: no row contains marker 'AWG Item Code'",
		},
		{
			name:     "with message",
			err:      &StructureNotFoundError{Marker: "AWG Item Code", Msg: "empty worksheet"},
			expected: "worksheet structure not found: empty worksheet (marker 'AWG Item Code')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestConfigurationMissingError(t *testing.T) {
	err := &ConfigurationMissingError{Company: "Acme", Category: "Deal Submissions"}
	assert.Equal(t, "no mapping configured for company 'Acme' in category 'Deal Submissions'", err.Error())

	inner := errors.New("no such file")
	docErr := &ConfigurationMissingError{Document: "mapping_rules.xlsx", Err: inner}
	assert.Contains(t, docErr.Error(), "mapping_rules.xlsx")
	assert.Equal(t, inner, errors.Unwrap(docErr))
}

func TestTransformationErrorUnwrap(t *testing.T) {
	inner := errors.New("invalid decimal")
	err := &TransformationError{Rule: "to_number:float", Value: "abc", Err: inner}
	assert.Equal(t, "transformation 'to_number:float' failed for value 'abc': invalid decimal", err.Error())
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestFieldExtractionErrorUnwrap(t *testing.T) {
	inner := errors.New("probe out of range")
	err := &FieldExtractionError{Field: "vendor_id", Err: inner}
	assert.Contains(t, err.Error(), "vendor_id")
	assert.Equal(t, inner, errors.Unwrap(err))
}
