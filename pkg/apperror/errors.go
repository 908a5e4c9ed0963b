package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
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

// ---- Ledger (LED) ----

func ErrInvalidAmount() *AppError {
	return New("LED_001", "Amount must be positive", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("LED_002", "Insufficient available balance", http.StatusPaymentRequired)
}

func ErrAccrualNotFound() *AppError {
	return New("LED_003", "Accrual not found", http.StatusNotFound)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Withdrawals (WD) ----

func ErrMissingPayoutAccount() *AppError {
	return New("WD_001", "No payout account configured", http.StatusUnprocessableEntity)
}

func ErrWithdrawalNotFound() *AppError {
	return New("WD_002", "Withdrawal not found", http.StatusNotFound)
}

// ---- Payout gateway (GW) ----

func ErrGatewayRejected(reason string) *AppError {
	if reason == "" {
		reason = "Payout rejected by gateway"
	}
	return New("GW_001", reason, http.StatusBadGateway)
}

func ErrGatewayTimeout() *AppError {
	return New("GW_002", "Payout gateway did not respond; withdrawal pending reconciliation", http.StatusAccepted)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrConcurrencyConflict surfaces after the ledger store has exhausted
// its internal retries on a serialization failure.
func ErrConcurrencyConflict(err error) *AppError {
	return Wrap("SYS_002", "Concurrent update conflict, please retry", http.StatusConflict, err)
}

// Validation returns a LED_001-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("LED_001", message, http.StatusBadRequest)
}
