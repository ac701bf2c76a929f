// Package errors provides custom error types for the siteledger API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Project errors.
var (
	ErrProjectNotFound = &AppError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", StatusCode: http.StatusNotFound}
	ErrMemberNotFound  = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Project member not found", StatusCode: http.StatusNotFound}
	ErrDuplicateMember = &AppError{Code: "DUPLICATE_MEMBER", Message: "User is already a member of this project", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is referenced by ledger entries, orders, or budget lines", StatusCode: http.StatusConflict}
)

// Cash-flow errors.
var (
	ErrEntryNotFound    = &AppError{Code: "ENTRY_NOT_FOUND", Message: "Cash-flow entry not found", StatusCode: http.StatusNotFound}
	ErrEntryManaged     = &AppError{Code: "ENTRY_MANAGED", Message: "Entry was generated by a purchase order and can only be changed through it", StatusCode: http.StatusConflict}
	ErrLegacyEntryType  = &AppError{Code: "LEGACY_ENTRY_TYPE", Message: "This project does not accept legacy cash-flow types", StatusCode: http.StatusBadRequest}
	ErrInvalidEntryType = &AppError{Code: "INVALID_ENTRY_TYPE", Message: "Unsupported cash-flow entry type", StatusCode: http.StatusBadRequest}
)

// Purchase order errors.
var (
	ErrOrderNotFound = &AppError{Code: "ORDER_NOT_FOUND", Message: "Purchase order not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetLineNotFound = &AppError{Code: "BUDGET_LINE_NOT_FOUND", Message: "Budget line not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudget    = &AppError{Code: "DUPLICATE_BUDGET", Message: "A budget line for this category already exists", StatusCode: http.StatusConflict}
	ErrSettingsNotFound   = &AppError{Code: "SETTINGS_NOT_FOUND", Message: "Project budget settings not found", StatusCode: http.StatusNotFound}
)

// Contract item errors.
var (
	ErrContractItemNotFound = &AppError{Code: "CONTRACT_ITEM_NOT_FOUND", Message: "Contract item not found", StatusCode: http.StatusNotFound}
	ErrDuplicateContract    = &AppError{Code: "DUPLICATE_CONTRACT_ITEM", Message: "A contract item for this category already exists", StatusCode: http.StatusConflict}
)

// Document errors.
var (
	ErrDocumentNotFound = &AppError{Code: "DOCUMENT_NOT_FOUND", Message: "Document not found", StatusCode: http.StatusNotFound}
)
