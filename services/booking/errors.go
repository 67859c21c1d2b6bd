package booking

import (
	"errors"
	"fmt"
)

// Workflow error codes. Each precondition failure gets its own code because
// each implies a different corrective action for the caller.
const (
	CodeInvalidRequest        = "invalidRequest"
	CodePaymentNotCompleted   = "paymentNotCompleted"
	CodeSlotUnavailable       = "slotUnavailable"
	CodeNotFound              = "notFound"
	CodeAlreadyCanceled       = "alreadyCanceled"
	CodeNoBookedSlotsFound    = "noBookedSlotsFound"
	CodePaymentIntentNotFound = "paymentIntentNotFound"
	CodeProvisioningFailed    = "provisioningFailed"
	CodeRefundFailed          = "refundFailed"
	CodeStorageFailed         = "storageFailed"
)

// WorkflowError is the booking workflow's error type. The Code drives the
// HTTP mapping in handlers; Message is safe to show to the caller.
type WorkflowError struct {
	Code    string
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func newWorkflowError(code, message string, err error) *WorkflowError {
	return &WorkflowError{Code: code, Message: message, Err: err}
}

// ErrorCode extracts the workflow code from err, or "" if err is not a
// WorkflowError.
func ErrorCode(err error) string {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}
