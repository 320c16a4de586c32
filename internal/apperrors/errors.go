package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrStructuralInput indicates that a required argument was missing before any remote call was made.
var ErrStructuralInput = errors.New("invalid input")

// ErrTerminalState indicates an attempt to change a document that is already submitted or cancelled.
var ErrTerminalState = errors.New("document is in a terminal state")

// ErrGateway indicates that a call to the remote ledger failed.
var ErrGateway = errors.New("ledger gateway error")

// GatewayError describes a failed remote ledger call.
type GatewayError struct {
	Operation  string // list, create, update, submit, invoke
	DocType    string // document type or remote method name
	StatusCode int    // HTTP status, 0 when the request never got a response
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("ledger %s %q failed (status %d): %s", e.Operation, e.DocType, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ledger %s %q failed: %s", e.Operation, e.DocType, e.Message)
}

// Is lets errors.Is match ErrGateway for every gateway error and ErrNotFound for 404 responses.
func (e *GatewayError) Is(target error) bool {
	switch target {
	case ErrGateway:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// StructuralInputf builds an ErrStructuralInput with a formatted detail message.
func StructuralInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructuralInput, fmt.Sprintf(format, args...))
}
