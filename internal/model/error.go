package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeFoodNotFound       = "FOOD_NOT_FOUND"
	ErrCodeDuplicateFoodName  = "DUPLICATE_FOOD_NAME"
	ErrCodeEstimationFailed   = "ESTIMATION_FAILED"
	ErrCodePersistenceFailed  = "PERSISTENCE_FAILED"
	ErrCodeValidationRejected = "VALIDATION_REJECTED"
	ErrCodeTemplateNotFound   = "TEMPLATE_NOT_FOUND"
	ErrCodeLogEntryNotFound   = "LOG_ENTRY_NOT_FOUND"
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a user-presentable message.
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
	// ErrFoodNotFound is an expected lookup miss, not a failure path.
	ErrFoodNotFound = NewDomainError(ErrCodeFoodNotFound, "Food not found")

	// ErrDuplicateFoodName signals a create raced with another resolution
	// of the same name. Callers recover by re-reading the catalogue.
	ErrDuplicateFoodName = NewDomainError(ErrCodeDuplicateFoodName, "A food with this name already exists")

	// ErrEstimationFailed covers transport errors and unusable completion
	// output. User-facing and retryable.
	ErrEstimationFailed = NewDomainError(ErrCodeEstimationFailed, "Could not estimate nutrition facts, please try again")

	// ErrPersistenceFailed covers failed writes to the backing store. The
	// user must re-attempt manually.
	ErrPersistenceFailed = NewDomainError(ErrCodePersistenceFailed, "Could not save changes, please try again")

	// ErrValidationRejected covers malformed input caught at the boundary.
	ErrValidationRejected = NewDomainError(ErrCodeValidationRejected, "Invalid input")

	ErrTemplateNotFound = NewDomainError(ErrCodeTemplateNotFound, "Template not found")

	ErrLogEntryNotFound = NewDomainError(ErrCodeLogEntryNotFound, "Log entry not found")
)
