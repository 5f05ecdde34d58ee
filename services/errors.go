// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/valconnect/llm"
)

type ErrorCode string

const (
	ErrorNotFound            ErrorCode = "not_found"
	ErrorConflict            ErrorCode = "conflict"
	ErrorInsufficientData    ErrorCode = "insufficient_data"
	ErrorUpstreamFormat      ErrorCode = "upstream_format"
	ErrorUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrorInvalidParticipant  ErrorCode = "invalid_participant"
	ErrorAlreadyClaimed      ErrorCode = "already_claimed"
	ErrorBelowThreshold      ErrorCode = "below_threshold"
	ErrorInvalid             ErrorCode = "invalid"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }

func NewInsufficientDataError(msg string) error {
	return &ServiceError{Code: ErrorInsufficientData, Message: msg}
}

func NewUpstreamFormatError(msg string) error {
	return &ServiceError{Code: ErrorUpstreamFormat, Message: msg}
}

func NewUpstreamUnavailableError(msg string) error {
	return &ServiceError{Code: ErrorUpstreamUnavailable, Message: msg}
}

func NewInvalidParticipantError(msg string) error {
	return &ServiceError{Code: ErrorInvalidParticipant, Message: msg}
}

func NewAlreadyClaimedError(msg string) error {
	return &ServiceError{Code: ErrorAlreadyClaimed, Message: msg}
}

func NewBelowThresholdError(msg string) error {
	return &ServiceError{Code: ErrorBelowThreshold, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the error's code, or "" for errors that are not ServiceErrors.
func CodeOf(err error) ErrorCode {
	if se, ok := AsServiceError(err); ok {
		return se.Code
	}
	return ""
}

// upstreamError translates a generator or comparator failure.
func upstreamError(op string, err error) error {
	switch {
	case errors.Is(err, llm.ErrMalformedResponse):
		return NewUpstreamFormatError(op + ": model response was not in the expected format")
	case errors.Is(err, llm.ErrUnavailable):
		return NewUpstreamUnavailableError(op + ": model service unavailable")
	case errors.Is(err, llm.ErrUnknownMood):
		return NewInvalidError(err.Error())
	}
	return fmt.Errorf("%s: %w", op, err)
}
