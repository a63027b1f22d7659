package types

import (
	"fmt"
)

// PDFErrorCode represents categorized error codes for PDF operations
type PDFErrorCode string

const (
	ErrCodeMalformedPDF            PDFErrorCode = "MALFORMED_PDF"
	ErrCodeObjectNotFound          PDFErrorCode = "OBJECT_NOT_FOUND"
	ErrCodeUnsupportedFilter       PDFErrorCode = "UNSUPPORTED_FILTER"
	ErrCodeInvalidPageNumber       PDFErrorCode = "INVALID_PAGE_NUMBER"
	ErrCodeAppearanceDecodeFailure PDFErrorCode = "APPEARANCE_DECODE_FAILURE"
	ErrCodeFieldNotFound           PDFErrorCode = "FIELD_NOT_FOUND"
)

// PDFError is a structured error type for PDF operations
type PDFError struct {
	Code    PDFErrorCode // Error category code
	Message string       // Human-readable message
	Cause   error        // Underlying error (if any)
}

// Error implements the error interface
func (e *PDFError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *PDFError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target PDFError by code
func (e *PDFError) Is(target error) bool {
	if t, ok := target.(*PDFError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewPDFError creates a new PDFError with the given code and message
func NewPDFError(code PDFErrorCode, message string) *PDFError {
	return &PDFError{
		Code:    code,
		Message: message,
	}
}

// NewPDFErrorf creates a new PDFError with a formatted message
func NewPDFErrorf(code PDFErrorCode, format string, args ...interface{}) *PDFError {
	return &PDFError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with a PDFError
func WrapError(code PDFErrorCode, message string, cause error) *PDFError {
	return &PDFError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinel errors for use with errors.Is()
var (
	ErrMalformedPDF      = &PDFError{Code: ErrCodeMalformedPDF}
	ErrUnsupportedFilter = &PDFError{Code: ErrCodeUnsupportedFilter}
)

// GetErrorCode extracts the error code from an error if it's a PDFError
func GetErrorCode(err error) (PDFErrorCode, bool) {
	if pdfErr, ok := err.(*PDFError); ok {
		return pdfErr.Code, true
	}
	return "", false
}
