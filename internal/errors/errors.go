// Package errors provides the application error type shared by the ingestion
// pipeline, the evolution calculator and the HTTP layer. Every service-layer
// error is an *AppError so callers can branch on its code and handlers can
// answer with a stable JSON body without leaking internals.
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

// Is reports whether target is an AppError with the same code, so errors
// derived with Wrap or WithMessage still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

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

// General errors.
var (
	ErrInvalidInput    = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer  = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrPayloadTooLarge = &AppError{Code: "PAYLOAD_TOO_LARGE", Message: "Request body is too large", StatusCode: http.StatusRequestEntityTooLarge}
)

// Pipeline access errors.
var (
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Workbook uploads are disabled: PIPELINE_API_KEY is not set", StatusCode: http.StatusServiceUnavailable}
	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing X-API-Key header", StatusCode: http.StatusUnauthorized}
)

// Ingestion input and schema errors.
var (
	ErrSourceNotFound = &AppError{Code: "SOURCE_NOT_FOUND", Message: "Spreadsheet not found", StatusCode: http.StatusNotFound}
	ErrSchema         = &AppError{Code: "SCHEMA_ERROR", Message: "Spreadsheet does not have the expected layout", StatusCode: http.StatusBadRequest}
	ErrDateParse      = &AppError{Code: "DATE_PARSE_ERROR", Message: "Invalid anchor date in weights sheet", StatusCode: http.StatusBadRequest}
)

// Ingestion domain validation errors.
var (
	ErrWeightSum           = &AppError{Code: "WEIGHT_SUM_ERROR", Message: "Portfolio weights do not sum to 1", StatusCode: http.StatusBadRequest}
	ErrUnknownTicker       = &AppError{Code: "UNKNOWN_TICKER", Message: "Ticker is not present in the prices sheet", StatusCode: http.StatusBadRequest}
	ErrMissingInitialPrice = &AppError{Code: "MISSING_INITIAL_PRICE", Message: "Asset has no price at the anchor date", StatusCode: http.StatusBadRequest}
	ErrZeroInitialPrice    = &AppError{Code: "ZERO_INITIAL_PRICE", Message: "Asset price at the anchor date is zero", StatusCode: http.StatusBadRequest}
	ErrNegativeValue       = &AppError{Code: "NEGATIVE_VALUE", Message: "Prices and quantities must not be negative", StatusCode: http.StatusBadRequest}
)

// Portfolio and evolution errors.
var (
	ErrPortfolioNotFound = &AppError{Code: "PORTFOLIO_NOT_FOUND", Message: "Portfolio not found", StatusCode: http.StatusNotFound}
	ErrNoPositions       = &AppError{Code: "NO_POSITIONS", Message: "Portfolio has no positions", StatusCode: http.StatusBadRequest}
	ErrInvalidRange      = &AppError{Code: "INVALID_RANGE", Message: "start_date cannot be after end_date", StatusCode: http.StatusBadRequest}
	ErrNoDataForDate     = &AppError{Code: "NO_DATA_FOR_DATE", Message: "No price or portfolio data for that date", StatusCode: http.StatusNotFound}
)
