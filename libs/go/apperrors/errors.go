// Package apperrors defines the error taxonomy shared by the pricing, oracle and
// authorization services and the HTTP layer that reports them.
package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies an error kind for programmatic handling.
type Code string

const (
	CodeInvalidContractSpec     Code = "INVALID_CONTRACT_SPEC"
	CodeUnsupportedContractType Code = "UNSUPPORTED_CONTRACT_TYPE"
	CodeNetworkNotSupported     Code = "NETWORK_NOT_SUPPORTED"
	CodeOracleUnavailable       Code = "ORACLE_UNAVAILABLE"
	CodeRateLimited             Code = "RATE_LIMITED"
	CodePriceUnavailable        Code = "PRICE_UNAVAILABLE"
	CodeInvalidUnitPrice        Code = "INVALID_UNIT_PRICE"
	CodeMissingField            Code = "MISSING_FIELD"
	CodeInvalidField            Code = "INVALID_FIELD"
)

// Detail keys used by callers that need to act on an error.
const (
	DetailFields            = "fields"
	DetailSupportedChainIDs = "supported_chain_ids"
	DetailSupportedNetworks = "supported_networks"
	DetailNetwork           = "network"
	DetailChainID           = "chain_id"
	DetailContractType      = "contract_type"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrInvalidContractSpec     = &Error{Code: CodeInvalidContractSpec, Message: "invalid contract spec"}
	ErrUnsupportedContractType = &Error{Code: CodeUnsupportedContractType, Message: "unsupported contract type"}
	ErrNetworkNotSupported     = &Error{Code: CodeNetworkNotSupported, Message: "network not supported"}
	ErrOracleUnavailable       = &Error{Code: CodeOracleUnavailable, Message: "price oracle unavailable"}
	ErrRateLimited             = &Error{Code: CodeRateLimited, Message: "rate limit exceeded"}
	ErrPriceUnavailable        = &Error{Code: CodePriceUnavailable, Message: "price data unavailable"}
	ErrInvalidUnitPrice        = &Error{Code: CodeInvalidUnitPrice, Message: "invalid token price"}
	ErrMissingField            = &Error{Code: CodeMissingField, Message: "missing required field"}
	ErrInvalidField            = &Error{Code: CodeInvalidField, Message: "invalid field"}
)

// Error provides structured error information.
type Error struct {
	// Code is the stable kind of the error.
	Code Code

	// Message is the human-readable error message.
	Message string

	// Details contains additional error context.
	Details map[string]interface{}

	// Err is the underlying error.
	Err error
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that keeps err as its cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A rate limited
// error is also an oracle unavailable error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return e.Code == CodeRateLimited && t.Code == CodeOracleUnavailable
}

// WithDetails adds additional context to the error.
// Lazily initializes the Details map if nil.
func (e *Error) WithDetails(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
