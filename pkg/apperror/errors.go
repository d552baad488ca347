package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses on the
// management API and carries a stable code for logs.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Escrow Business Logic (ESC) ----

func ErrNotFound(entity string) *AppError {
	return New("ESC_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAmountMismatch() *AppError {
	return New("ESC_002", "total_amount must equal mint_cost + broker_fee", http.StatusBadRequest)
}

func ErrInvalidPlatformType() *AppError {
	return New("ESC_003", "Invalid platform type", http.StatusBadRequest)
}

func ErrMissingIssuerSeed() *AppError {
	return New("ESC_004", "issuer_seed is required for external escrows", http.StatusBadRequest)
}

func ErrMissingProject() *AppError {
	return New("ESC_005", "project_id is required for platform-minted escrows", http.StatusBadRequest)
}

// ---- Ledger Operations (LED) ----

func ErrLedgerSubmit(err error) *AppError {
	return Wrap("LED_001", "Ledger submission failed", http.StatusBadGateway, err)
}

func ErrTokenIDNotFound() *AppError {
	return New("LED_002", "Minted token id not present in ledger result", http.StatusBadGateway)
}

func ErrOfferIndexNotFound() *AppError {
	return New("LED_003", "Offer index not present in ledger result", http.StatusBadGateway)
}

// ---- Key Vault (VLT) ----

func ErrVaultFailure(err error) *AppError {
	return Wrap("VLT_001", "Vault encryption/decryption failure", http.StatusInternalServerError, err)
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidToken() *AppError {
	return New("SEC_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("ESC_000", message, http.StatusBadRequest)
}
