package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/parisxmas/partnerhub/internal/codec"
)

// ErrorCode identifies which repository operation failed. Callers
// branch on these codes instead of backend-specific error shapes.
type ErrorCode string

const (
	CodeGetPartner       ErrorCode = "GET_PARTNER_ERROR"
	CodeSavePartner      ErrorCode = "SAVE_PARTNER_ERROR"
	CodeListPartners     ErrorCode = "LIST_PARTNERS_ERROR"
	CodeDeletePartner    ErrorCode = "DELETE_PARTNER_ERROR"
	CodeGetSubmission    ErrorCode = "GET_SUBMISSION_ERROR"
	CodeSaveSubmission   ErrorCode = "SAVE_SUBMISSION_ERROR"
	CodeListSubmissions  ErrorCode = "LIST_SUBMISSIONS_ERROR"
	CodeDeleteSubmission ErrorCode = "DELETE_SUBMISSION_ERROR"
	CodeDeserialization  ErrorCode = "DESERIALIZATION_ERROR"
)

// Error is the single error surface of the repository layer. The
// underlying cause is preserved for diagnostics and unwrapping, never
// discarded.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// wrapErr maps an operation failure into the taxonomy. Cancellation
// passes through untouched so callers can tell an aborted wait from a
// backend failure; codec failures keep their own code so corrupt data
// is distinguishable from a dead backend.
func wrapErr(code ErrorCode, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var de *codec.DecodeError
	if errors.As(err, &de) {
		code = CodeDeserialization
	}
	return &Error{Code: code, Message: message, Err: err}
}
