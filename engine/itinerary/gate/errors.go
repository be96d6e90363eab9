package gate

import (
	"errors"
	"fmt"
)

var (
	ErrMissingMetadata   = errors.New("missing provenance metadata")
	ErrInvalidSource     = errors.New("invalid source")
	ErrDeprecatedVersion = errors.New("deprecated version")
)

// ProvenanceError is returned for any state the gate refuses to certify.
// It is fatal for the enclosing transaction and should not be retried.
type ProvenanceError struct {
	Value string
	Err   error
}

func (e *ProvenanceError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("provenance check failed: %v", e.Err)
	}
	return fmt.Sprintf("provenance check failed: %v: %s", e.Err, e.Value)
}

func (e *ProvenanceError) Unwrap() error {
	return e.Err
}

func newProvenanceError(err error, value string) *ProvenanceError {
	return &ProvenanceError{Value: value, Err: err}
}

// IsProvenanceError reports whether err carries a *ProvenanceError.
func IsProvenanceError(err error) bool {
	var perr *ProvenanceError
	return errors.As(err, &perr)
}
