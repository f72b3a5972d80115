// Package errors provides structured error handling for phpdoctor.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Exec errors (external commands)
//   - 4XX: Decode errors (command output parsing)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryExec indicates external command errors.
	CategoryExec Category = "EXEC"
	// CategoryDecode indicates command output decode errors.
	CategoryDecode Category = "DECODE"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"

	// Exec errors (300-399)
	ErrCodeCommandFailed   = "ERR_301_COMMAND_FAILED"
	ErrCodeCommandNotFound = "ERR_302_COMMAND_NOT_FOUND"

	// Decode errors (400-499)
	ErrCodeDecodeFailed  = "ERR_401_DECODE_FAILED"
	ErrCodeEmptyResponse = "ERR_402_EMPTY_RESPONSE"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode derives the category from the code's number block.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryExec
	case '4':
		return CategoryDecode
	default:
		return CategoryInternal
	}
}

// severityFromCode derives the severity from the code.
// Decode failures on the version lookup are fatal: the tool must not
// continue with an undefined PHP version.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeDecodeFailed, ErrCodeEmptyResponse, ErrCodeInternal:
		return SeverityFatal
	default:
		return SeverityError
	}
}
