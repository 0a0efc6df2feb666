package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is wrapped by every *ValidationError.
	ErrInvalid = errors.New("contracts: invalid payload")

	// ErrEnvelopeTooLarge is returned when a raw relay frame exceeds MaxEnvelopeBytes.
	ErrEnvelopeTooLarge = errors.New("contracts: envelope exceeds maximum size")

	// ErrUnknownMessage is returned when a relay frame is neither an envelope
	// nor a control message, or a decrypted payload has an unknown type.
	ErrUnknownMessage = errors.New("contracts: unknown message kind")

	// ErrUnsupportedProtocol is returned for envelopes whose protocol_version
	// is newer than ProtocolVersion.
	ErrUnsupportedProtocol = errors.New("contracts: unsupported protocol version")
)

// ValidationError describes the first field that failed a contract check.
type ValidationError struct {
	Shape  string // shape name, e.g. "run_result"
	Path   string // JSON path of the offending field, empty for the root
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("contracts: %s: %s", e.Shape, e.Reason)
	}
	return fmt.Sprintf("contracts: %s: %s: %s", e.Shape, e.Path, e.Reason)
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrInvalid).
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// AsValidationError extracts the *ValidationError from err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
