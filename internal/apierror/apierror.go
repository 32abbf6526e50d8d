// Package apierror provides standardized error structures for the billing core
// and the API boundary. Business rules surface *BusinessError values with a
// stable code; the HTTP layer renders them as APIError envelopes. Callers must
// match on Code, never on the localized Detail text.
package apierror

import "errors"

// Stable business error codes. These are load-bearing for callers: the
// frontend maps each code to its own user-facing text.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeDuplicatePeriod        = "DUPLICATE_PERIOD"
	CodeAlreadyPaid            = "ALREADY_PAID"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeOverpayment            = "OVERPAYMENT"
	CodeInvariantViolation     = "INVARIANT_VIOLATION"
	CodeUpstreamUnavailable    = "UPSTREAM_UNAVAILABLE"
	CodeNotFound               = "NOT_FOUND"
)

// BusinessError is a structured {code, message} pair returned by the billing
// services. It is terminal for the operation that produced it — only
// UPSTREAM_UNAVAILABLE may be retried, and by the caller, not internally.
type BusinessError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *BusinessError) Error() string { return e.Message }

func newBusiness(code, msg string) *BusinessError {
	return &BusinessError{Code: code, Message: msg}
}

func Validation(msg string) *BusinessError      { return newBusiness(CodeValidation, msg) }
func DuplicatePeriod(msg string) *BusinessError { return newBusiness(CodeDuplicatePeriod, msg) }
func AlreadyPaid(msg string) *BusinessError     { return newBusiness(CodeAlreadyPaid, msg) }
func InvalidStateTransition(msg string) *BusinessError {
	return newBusiness(CodeInvalidStateTransition, msg)
}
func Overpayment(msg string) *BusinessError { return newBusiness(CodeOverpayment, msg) }

// InvariantViolation marks ledger corruption (negative or inconsistent debt).
// It is treated as a bug: logged and surfaced, never silently corrected.
func InvariantViolation(msg string) *BusinessError {
	return newBusiness(CodeInvariantViolation, msg)
}
func UpstreamUnavailable(msg string) *BusinessError {
	return newBusiness(CodeUpstreamUnavailable, msg)
}
func NotFound(msg string) *BusinessError { return newBusiness(CodeNotFound, msg) }

// AsBusiness unwraps err into a *BusinessError when one is in the chain.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCode reports whether err carries the given business code.
func IsCode(err error, code string) bool {
	be, ok := AsBusiness(err)
	return ok && be.Code == code
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FromBusiness converts a business error into its HTTP envelope.
func FromBusiness(be *BusinessError) *APIError {
	return &APIError{Code: be.Code, Detail: be.Message}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodeValidation, Detail: "Error de validacion", Fields: fields}
}
