package txbuilder

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a BuilderError the way the reference implementation's
// tagged error enum does, so callers can switch on a stable identifier
// instead of parsing messages.
type ErrorCode int

const (
	_ ErrorCode = iota
	ErrPointerIsNull
	ErrIllegalState
	ErrElementNotFound
	ErrDuplicatedKey
	ErrIndexOutOfBounds
	ErrDecoding
	ErrUnexpectedCborType
	ErrInvalidCborValue
	ErrBalanceInsufficient
	ErrUtxoNotFragmentedEnough
	ErrInputLimitExceeded
	ErrMaximumInputCountExceeded
	ErrFullyDepleted
	ErrBalancingDidNotConverge
	ErrScriptEvaluationFailed
	ErrIntegrityHashMismatch
	ErrNotImplemented
)

func (c ErrorCode) String() string {
	switch c {
	case ErrPointerIsNull:
		return "POINTER_IS_NULL"
	case ErrIllegalState:
		return "ILLEGAL_STATE"
	case ErrElementNotFound:
		return "ELEMENT_NOT_FOUND"
	case ErrDuplicatedKey:
		return "DUPLICATED_KEY"
	case ErrIndexOutOfBounds:
		return "INDEX_OUT_OF_BOUNDS"
	case ErrDecoding:
		return "DECODING"
	case ErrUnexpectedCborType:
		return "UNEXPECTED_CBOR_TYPE"
	case ErrInvalidCborValue:
		return "INVALID_CBOR_VALUE"
	case ErrBalanceInsufficient:
		return "BALANCE_INSUFFICIENT"
	case ErrUtxoNotFragmentedEnough:
		return "UTXO_NOT_FRAGMENTED_ENOUGH"
	case ErrInputLimitExceeded:
		return "INPUT_LIMIT_EXCEEDED"
	case ErrMaximumInputCountExceeded:
		return "MAXIMUM_INPUT_COUNT_EXCEEDED"
	case ErrFullyDepleted:
		return "FULLY_DEPLETED"
	case ErrBalancingDidNotConverge:
		return "BALANCING_DID_NOT_CONVERGE"
	case ErrScriptEvaluationFailed:
		return "SCRIPT_EVALUATION_FAILED"
	case ErrIntegrityHashMismatch:
		return "INTEGRITY_HASH_MISMATCH"
	case ErrNotImplemented:
		return "NOT_IMPLEMENTED"
	default:
		return "UNKNOWN"
	}
}

// maxErrorMessageLen bounds the human-readable message kept on a
// BuilderError, mirroring the ≤1023-char last-error message in spec.md §7.
const maxErrorMessageLen = 1023

// BuilderError is the value-returned error type for every operation in this
// package. It is never panicked; callers compare ErrorCode with errors.As.
type BuilderError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// NewError builds a *BuilderError, for collaborators outside this package
// (coinselect, cmd/txbuild) that need to report errors using the same
// taxonomy.
func NewError(code ErrorCode, format string, args ...any) *BuilderError {
	return newErr(code, format, args...)
}

func newErr(code ErrorCode, format string, args ...any) *BuilderError {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > maxErrorMessageLen {
		msg = msg[:maxErrorMessageLen]
	}
	return &BuilderError{Code: code, Message: msg}
}

func wrapErr(code ErrorCode, cause error, format string, args ...any) *BuilderError {
	e := newErr(code, format, args...)
	e.Cause = cause
	return e
}

func (e *BuilderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BuilderError) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, &BuilderError{Code: ErrDuplicatedKey}) style
// comparisons by matching on Code rather than identity; HasCode below is the
// shorthand for the same check.
func (e *BuilderError) Is(target error) bool {
	var other *BuilderError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// HasCode reports whether err is a *BuilderError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var be *BuilderError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
