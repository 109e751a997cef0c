// Package apperr defines the error kinds returned by the service layers.
//
// Every domain failure carries a Code. Transport layers map codes to protocol
// responses; anything without a code is an infrastructure failure.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a kind of domain failure.
type Code string

const (
	CodeInvalidTimeRange     Code = "INVALID_TIME_RANGE"
	CodePastBooking          Code = "PAST_BOOKING"
	CodeItemNotFound         Code = "ITEM_NOT_FOUND"
	CodeUserNotFound         Code = "USER_NOT_FOUND"
	CodeBookingNotFound      Code = "BOOKING_NOT_FOUND"
	CodeRequestNotFound      Code = "REQUEST_NOT_FOUND"
	CodeItemUnavailable      Code = "ITEM_UNAVAILABLE"
	CodeSelfBookingForbidden Code = "SELF_BOOKING_FORBIDDEN"
	CodeAlreadyDecided       Code = "ALREADY_DECIDED"
	CodeNotAuthorized        Code = "NOT_AUTHORIZED"
	CodeNotEligibleToComment Code = "NOT_ELIGIBLE_TO_COMMENT"
	CodeInvalidPagination    Code = "INVALID_PAGINATION"
	CodeUnknownState         Code = "UNKNOWN_STATE"
	CodeValidation           Code = "VALIDATION"
	CodeDuplicateEmail       Code = "DUPLICATE_EMAIL"
	CodeUserInUse            Code = "USER_IN_USE"
	CodeRateLimited          Code = "RATE_LIMITED"
)

// Error is a domain failure with a code and a human readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// Is matches any *Error with the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidTimeRange     = &Error{Code: CodeInvalidTimeRange}
	ErrPastBooking          = &Error{Code: CodePastBooking}
	ErrItemNotFound         = &Error{Code: CodeItemNotFound}
	ErrUserNotFound         = &Error{Code: CodeUserNotFound}
	ErrBookingNotFound      = &Error{Code: CodeBookingNotFound}
	ErrRequestNotFound      = &Error{Code: CodeRequestNotFound}
	ErrItemUnavailable      = &Error{Code: CodeItemUnavailable}
	ErrSelfBookingForbidden = &Error{Code: CodeSelfBookingForbidden}
	ErrAlreadyDecided       = &Error{Code: CodeAlreadyDecided}
	ErrNotAuthorized        = &Error{Code: CodeNotAuthorized}
	ErrNotEligibleToComment = &Error{Code: CodeNotEligibleToComment}
	ErrInvalidPagination    = &Error{Code: CodeInvalidPagination}
	ErrUnknownState         = &Error{Code: CodeUnknownState}
	ErrValidation           = &Error{Code: CodeValidation}
	ErrDuplicateEmail       = &Error{Code: CodeDuplicateEmail}
	ErrUserInUse            = &Error{Code: CodeUserInUse}
	ErrRateLimited          = &Error{Code: CodeRateLimited}
)

// New builds an *Error with a formatted message.
func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf returns the message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
