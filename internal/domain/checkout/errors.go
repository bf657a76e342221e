package checkout

import "errors"

var (
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrIdentityMismatch    = errors.New("identifiers do not match session metadata")
	ErrMissingSessionID    = errors.New("session id is required")
)

// ProcessorError carries a payment processor rejection. Message is the
// processor's own text and is surfaced to callers verbatim.
type ProcessorError struct {
	Message string
	Err     error
}

func (e *ProcessorError) Error() string {
	return e.Message
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}
