package logging

// Standardized field names for structured logging. Keeping these in one
// place makes processing logs easier to filter by file, company or sheet.
const (
	FieldFile      = "file_path"
	FieldCompany   = "company"
	FieldCategory  = "category"
	FieldSheet     = "sheet"
	FieldRow       = "row"
	FieldColumn    = "column"
	FieldRule      = "rule"
	FieldLabel     = "label"
	FieldCount     = "count"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldRecipient = "recipient"
)
