package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput           ErrorCode = "invalid_input"
	InvalidAmount          ErrorCode = "invalid_amount"
	ClientNotFound         ErrorCode = "client_not_found"
	AccountNotFound        ErrorCode = "account_not_found"
	TransactionNotFound    ErrorCode = "transaction_not_found"
	DuplicateAccountNumber ErrorCode = "duplicate_account_number"
	InsufficientFunds      ErrorCode = "insufficient_funds"
	SameAccountTransfer    ErrorCode = "same_account_transfer"
	UnknownAccountType     ErrorCode = "unknown_account_type"
	GatewayError           ErrorCode = "gateway_error"
	InternalError          ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps the error taxonomy onto response codes. Expected
// business outcomes map below 500; gateway and decode failures map to
// 500 while keeping their distinguishing code in the body.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount, SameAccountTransfer:
		return http.StatusBadRequest
	case ClientNotFound, AccountNotFound, TransactionNotFound:
		return http.StatusNotFound
	case DuplicateAccountNumber:
		return http.StatusConflict
	case InsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrClientNotFound         = NewAppError(ClientNotFound, "client not found")
	ErrAccountNotFound        = NewAppError(AccountNotFound, "account not found")
	ErrTransactionNotFound    = NewAppError(TransactionNotFound, "transaction not found")
	ErrDuplicateAccountNumber = NewAppError(DuplicateAccountNumber, "account number already in use")
	ErrInsufficientFunds      = NewAppError(InsufficientFunds, "insufficient funds or overdraft limit exceeded")
	ErrSameAccountTransfer    = NewAppError(SameAccountTransfer, "source and destination accounts are the same")
	ErrInvalidAmount          = NewAppError(InvalidAmount, "amount must be positive")
	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction from a transactional store")
)
