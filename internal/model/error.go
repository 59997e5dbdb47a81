package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidLocation  = "INVALID_LOCATION"
	ErrCodeInvalidDate      = "INVALID_DATE"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeInvalidDocument  = "INVALID_DOCUMENT"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeLastEntry        = "LAST_ENTRY"
	ErrCodeProtectedEntry   = "PROTECTED_ENTRY"
	ErrCodeBackupNotFound   = "BACKUP_NOT_FOUND"
	ErrCodeBackupDisabled   = "BACKUP_DISABLED"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrMissingName     = NewDomainError(ErrCodeMissingField, "Product name is required")
	ErrMissingBarcode  = NewDomainError(ErrCodeMissingField, "Barcode is required")
	ErrMissingExpiry   = NewDomainError(ErrCodeMissingField, "Expiry date is required")
	ErrMissingEntry    = NewDomainError(ErrCodeMissingField, "Entry name is required")
	ErrMissingKey      = NewDomainError(ErrCodeMissingField, "Backup key is required")
	ErrBackupDisabled  = NewDomainError(ErrCodeBackupDisabled, "No backup store is configured")
)

// LastEntryError rejects removing the only remaining taxonomy entry of a location.
type LastEntryError struct {
	Kind     string
	Location Location
}

func (e *LastEntryError) Error() string {
	return fmt.Sprintf("cannot remove the last %s of location %s", e.Kind, e.Location)
}

// ProtectedEntryError rejects removing the fallback category.
type ProtectedEntryError struct {
	Name     string
	Location Location
}

func (e *ProtectedEntryError) Error() string {
	return fmt.Sprintf("category %q is the fallback category of %s and cannot be removed", e.Name, e.Location)
}

// DateError reports an expiry date that could not be understood.
type DateError struct {
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date format: %q (use YYYY-MM-DD)", e.Value)
}

// DocumentError reports an import document that could not be decoded.
type DocumentError struct {
	Section string
	Err     error
}

func (e *DocumentError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("invalid import document: %v", e.Err)
	}
	return fmt.Sprintf("invalid import document (%s): %v", e.Section, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
