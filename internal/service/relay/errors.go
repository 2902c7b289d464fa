package relay

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration means the mail transport has no credentials to send with.
var ErrConfiguration = errors.New("email credentials not configured")

// ValidationError lists the required fields a submission left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// TransportError wraps a failed or timed-out verify/send against the mail transport.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("mail %s failed: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }
