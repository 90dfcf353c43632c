// Package errors provides the standardized error taxonomy for the order ETL pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigMissing      ErrorCode = "CONFIG_MISSING"
	ErrCodeConfigInvalid      ErrorCode = "CONFIG_INVALID"
	ErrCodeSchemaViolation    ErrorCode = "SCHEMA_VIOLATION"
	ErrCodeSemanticViolation  ErrorCode = "SEMANTIC_VIOLATION"
	ErrCodeDataQualityWarning ErrorCode = "DATA_QUALITY_WARNING"
	ErrCodeArtifactIO         ErrorCode = "ARTIFACT_IO_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured pipeline error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Fatal     bool                   `json:"fatal"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Details)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches on code so callers can test errors.Is(err, &StandardError{Code: ...}).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigMissingError reports a required config or artifact file that does not exist.
func NewConfigMissingError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigMissing,
		Message:   "Required configuration or artifact is missing",
		Details:   fmt.Sprintf("path: %s", path),
		Fatal:     true,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError reports a config document that exists but cannot be decoded.
func NewConfigInvalidError(path, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Configuration is malformed",
		Details:   fmt.Sprintf("path: %s, error: %s", path, details),
		Fatal:     true,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaViolationError reports structural schema failures with a preview of the first few.
func NewSchemaViolationError(count int, preview []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaViolation,
		Message:   fmt.Sprintf("Artifacts failed schema validation (%d violations)", count),
		Details:   strings.Join(preview, "; "),
		Fatal:     true,
		Metadata:  map[string]interface{}{"count": count},
		Timestamp: time.Now().UTC(),
	}
}

// NewSemanticViolationError reports preflight failures with the full count and a preview.
func NewSemanticViolationError(count int, preview []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSemanticViolation,
		Message:   fmt.Sprintf("Artifacts failed semantic preflight (%d problems)", count),
		Details:   strings.Join(preview, "; "),
		Fatal:     true,
		Metadata:  map[string]interface{}{"count": count},
		Timestamp: time.Now().UTC(),
	}
}

// NewDataQualityWarning describes a non-fatal data issue such as an alias conflict.
func NewDataQualityWarning(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataQualityWarning,
		Message:   "Data quality warning",
		Details:   details,
		Fatal:     false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactIOError wraps a read or write failure on an artifact file.
func NewArtifactIOError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactIO,
		Message:   "Artifact read/write failed",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Fatal:     true,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) {
		return 1
	}
	switch stdErr.Code {
	case ErrCodeDataQualityWarning:
		return 0
	case ErrCodeConfigMissing, ErrCodeConfigInvalid:
		return 2
	case ErrCodeSchemaViolation:
		return 3
	case ErrCodeSemanticViolation:
		return 4
	default:
		return 1
	}
}

// IsFatal reports whether err should stop the run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Fatal
	}
	return true
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.Contains(codeStr, "VIOLATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DATA_QUALITY"):
		return "DATA_QUALITY"
	case strings.Contains(codeStr, "IO"):
		return "IO"
	default:
		return "OTHER"
	}
}
