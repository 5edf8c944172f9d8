package caller

import "fmt"

// ErrorCode tags a negotiation failure with a stable identifier.
type ErrorCode string

const (
	ErrSetLocalStream  ErrorCode = "SET_LOCAL_STREAM_FAILED"
	ErrCreateOffer     ErrorCode = "CREATE_OFFER_FAILED"
	ErrHandleOffer     ErrorCode = "HANDLE_OFFER_FAILED"
	ErrHandleAnswer    ErrorCode = "HANDLE_ANSWER_FAILED"
	ErrAddIceCandidate ErrorCode = "ADD_ICE_CANDIDATE_FAILED"
	ErrInvalidState    ErrorCode = "INVALID_STATE"
	ErrSessionClosed   ErrorCode = "SESSION_CLOSED"
)

// Error is a typed negotiation error. Sessions report every failure with
// one and never retry on their own, retry policy belongs to the caller.
type Error struct {
	Code  ErrorCode
	cause error
}

func negotiationError(code ErrorCode, cause error) *Error {
	return &Error{Code: code, cause: cause}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }
