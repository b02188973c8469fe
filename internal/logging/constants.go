package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldAccount     = "bank_account_id"
	FieldProfile     = "profile"
	FieldState       = "state"
	FieldRow         = "row"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldTotalErrors = "total_errors"
	FieldDelimiter   = "delimiter"
	FieldEncoding    = "encoding"
	FieldColumns     = "columns"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
)
