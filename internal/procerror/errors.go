// Package procerror defines the error taxonomy for submission processing.
package procerror

import "fmt"

// StructureNotFoundError indicates a required anchor row is absent from the
// worksheet, e.g. no header marker was found. This is a client-input error
// and fails the whole request.
type StructureNotFoundError struct {
	Marker string
	Msg    string
}

func (e *StructureNotFoundError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("worksheet structure not found: %s (marker '%s')", e.Msg, e.Marker)
	}
	return fmt.Sprintf("worksheet structure not found: no row contains marker '%s'", e.Marker)
}

// ConfigurationMissingError indicates that no mapping sheet could be resolved
// for a company/category pair, or a configuration document is absent.
type ConfigurationMissingError struct {
	Company  string
	Category string
	Document string
	Err      error
}

func (e *ConfigurationMissingError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("configuration document missing: %s: %v", e.Document, e.Err)
	}
	return fmt.Sprintf("no mapping configured for company '%s' in category '%s'", e.Company, e.Category)
}

func (e *ConfigurationMissingError) Unwrap() error {
	return e.Err
}

// TransformationError describes a rule application failure. It is recovered
// locally: the original value passes through and processing continues.
type TransformationError struct {
	Rule  string
	Value string
	Err   error
}

func (e *TransformationError) Error() string {
	return fmt.Sprintf("transformation '%s' failed for value '%s': %v", e.Rule, e.Value, e.Err)
}

func (e *TransformationError) Unwrap() error {
	return e.Err
}

// FieldExtractionError describes a failure during deal-header or zone
// scanning. Extraction is best-effort, so callers log it and default the
// affected fields rather than failing the request.
type FieldExtractionError struct {
	Field string
	Err   error
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("field extraction failed for '%s': %v", e.Field, e.Err)
}

func (e *FieldExtractionError) Unwrap() error {
	return e.Err
}
