package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

// DivergenceDetail names one stock record that no longer matches the sale
// ledger and needs manual correction.
type DivergenceDetail struct {
	StockroomID int `json:"stockroomId"`
	ProductID   int `json:"productId"`
	Quantity    int `json:"quantity"`
}

// DivergenceError is raised when a failed stock move could not be
// compensated. It is never absorbed: the caller must surface it to a human.
type DivergenceError struct {
	Message string
	Details []DivergenceDetail
}

func (e *DivergenceError) Error() string {
	return e.Message
}

func NewDivergenceError(message string, details ...DivergenceDetail) *DivergenceError {
	return &DivergenceError{
		Message: message,
		Details: details,
	}
}

func IsDivergenceError(err error) (*DivergenceError, bool) {
	if de, ok := err.(*DivergenceError); ok {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
