package scanner

import (
	"context"
	"errors"
	"fmt"
)

const (
	errorCodeInvalidAddress     = "INVALID_ADDRESS"
	errorCodeInvalidStartPort   = "INVALID_START_PORT"
	errorCodeInvalidEndPort     = "INVALID_END_PORT"
	errorCodeInvalidConcurrency = "INVALID_CONCURRENCY"
	errorCodeInvalidArgument    = "INVALID_ARGUMENT"
	errorCodeScanCanceled       = "SCAN_CANCELED"
	errorCodeScanFailure        = "SCAN_FAILURE"
)

var (
	// ErrInvalidAddress indicates the target is not a parsable IP address.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidStartPort indicates the first port of the range is out of bounds.
	ErrInvalidStartPort = errors.New("invalid start port")

	// ErrInvalidEndPort indicates the exclusive end of the range is out of bounds.
	ErrInvalidEndPort = errors.New("invalid end port")

	// ErrInvalidConcurrency indicates a limiter capacity below one.
	ErrInvalidConcurrency = errors.New("invalid concurrency")

	// ErrInvalidArgument indicates malformed command-line input, such as a
	// non-numeric port.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrScanCanceled indicates the scan context ended before every port was attempted.
	ErrScanCanceled = errors.New("scan canceled")
)

type errorCoder interface {
	error
	Code() string
}

type withCodeError struct {
	error
	code string
}

func (e *withCodeError) Code() string {
	return e.code
}

func (e *withCodeError) Unwrap() error {
	return e.error
}

// WithErrorCode annotates err with a scan error code.
func WithErrorCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &withCodeError{error: err, code: code}
}

func newInvalidAddressError(address string) error {
	return WithErrorCode(fmt.Errorf("%w: %q is not an IP address", ErrInvalidAddress, address), errorCodeInvalidAddress)
}

func newInvalidStartPortError(port int) error {
	return WithErrorCode(fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidStartPort, port, MaxPort), errorCodeInvalidStartPort)
}

func newInvalidEndPortError(port int) error {
	return WithErrorCode(fmt.Errorf("%w: %d (must be less than or equal to %d)", ErrInvalidEndPort, port, MaxPort), errorCodeInvalidEndPort)
}

func newInvalidConcurrencyError(n int) error {
	return WithErrorCode(fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidConcurrency, n), errorCodeInvalidConcurrency)
}

// NewInvalidArgumentError wraps a flag or argument parsing failure.
func NewInvalidArgumentError(err error) error {
	if err == nil {
		return nil
	}
	return WithErrorCode(fmt.Errorf("%w: %w", ErrInvalidArgument, err), errorCodeInvalidArgument)
}

// WrapCanceled annotates a context error that interrupted a scan.
func WrapCanceled(err error) error {
	if err == nil {
		return nil
	}
	return WithErrorCode(fmt.Errorf("%w: %w", ErrScanCanceled, err), errorCodeScanCanceled)
}

// IsValidationError reports whether err was raised while validating a scan request.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidStartPort) ||
		errors.Is(err, ErrInvalidEndPort) ||
		errors.Is(err, ErrInvalidConcurrency) ||
		errors.Is(err, ErrInvalidArgument)
}

// ErrorCode resolves an error to its scan error code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var coded errorCoder
	if errors.As(err, &coded) {
		if code := coded.Code(); code != "" {
			return code
		}
	}

	switch {
	case errors.Is(err, ErrInvalidAddress):
		return errorCodeInvalidAddress
	case errors.Is(err, ErrInvalidStartPort):
		return errorCodeInvalidStartPort
	case errors.Is(err, ErrInvalidEndPort):
		return errorCodeInvalidEndPort
	case errors.Is(err, ErrInvalidConcurrency):
		return errorCodeInvalidConcurrency
	case errors.Is(err, ErrInvalidArgument):
		return errorCodeInvalidArgument
	case errors.Is(err, ErrScanCanceled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorCodeScanCanceled
	default:
		return errorCodeScanFailure
	}
}

// ExitCode maps errors to CLI exit codes.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case IsValidationError(err):
		return 2
	case errors.Is(err, ErrScanCanceled), errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
