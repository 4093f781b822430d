package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every *Error unwraps to exactly one of them, so callers can branch with
// errors.Is without knowing the concrete code.
var (
	// ErrNotFound is returned for unknown client, terminal or communication keys.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a client or terminal key is already registered.
	ErrDuplicate = errors.New("duplicate key")

	// ErrInvalidFormat is returned for malformed keys and values.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrIllegalTransition is returned when a command repeats the current state.
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrUnreachable is returned when the destination terminal cannot take the communication.
	ErrUnreachable = errors.New("unreachable destination")

	// ErrNotPermitted is returned when the caller may not perform the operation.
	ErrNotPermitted = errors.New("operation not permitted")

	// ErrUnsupported is returned when a terminal does not support a communication type.
	ErrUnsupported = errors.New("unsupported communication")

	// ErrUnrecognizedEntry is returned for import records with an unknown tag or arity.
	ErrUnrecognizedEntry = errors.New("unrecognized entry")

	// ErrSnapshotNotFound is returned by snapshot stores for unknown network names.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknownClientKey        Code = "UNKNOWN_CLIENT_KEY"
	CodeUnknownTerminalKey      Code = "UNKNOWN_TERMINAL_KEY"
	CodeInvalidCommunicationKey Code = "INVALID_COMMUNICATION_KEY"

	CodeDuplicateClientKey   Code = "DUPLICATE_CLIENT_KEY"
	CodeDuplicateTerminalKey Code = "DUPLICATE_TERMINAL_KEY"

	CodeInvalidClientKey     Code = "INVALID_CLIENT_KEY"
	CodeInvalidTerminalKey   Code = "INVALID_TERMINAL_KEY"
	CodeInvalidTerminalKind  Code = "INVALID_TERMINAL_KIND"
	CodeInvalidTerminalState Code = "INVALID_TERMINAL_STATE"
	CodeInvalidTaxID         Code = "INVALID_TAX_ID"
	CodeInvalidDuration      Code = "INVALID_DURATION"
	CodeInvalidCommType      Code = "INVALID_COMMUNICATION_TYPE"

	CodeAlreadyOn                    Code = "TERMINAL_ALREADY_ON"
	CodeAlreadyOff                   Code = "TERMINAL_ALREADY_OFF"
	CodeAlreadySilent                Code = "TERMINAL_ALREADY_SILENT"
	CodeNotificationsAlreadyEnabled  Code = "NOTIFICATIONS_ALREADY_ENABLED"
	CodeNotificationsAlreadyDisabled Code = "NOTIFICATIONS_ALREADY_DISABLED"

	CodeDestinationOff    Code = "DESTINATION_OFF"
	CodeDestinationBusy   Code = "DESTINATION_BUSY"
	CodeDestinationSilent Code = "DESTINATION_SILENT"

	CodeSourceUnavailable      Code = "SOURCE_UNAVAILABLE"
	CodeNoOngoingCommunication Code = "NO_ONGOING_COMMUNICATION"

	CodeUnsupportedAtOrigin      Code = "UNSUPPORTED_AT_ORIGIN"
	CodeUnsupportedAtDestination Code = "UNSUPPORTED_AT_DESTINATION"

	CodeUnrecognizedEntry Code = "UNRECOGNIZED_ENTRY"
)

var codeCategory = map[Code]error{
	CodeUnknownClientKey:        ErrNotFound,
	CodeUnknownTerminalKey:      ErrNotFound,
	CodeInvalidCommunicationKey: ErrNotPermitted,

	CodeDuplicateClientKey:   ErrDuplicate,
	CodeDuplicateTerminalKey: ErrDuplicate,

	CodeInvalidClientKey:     ErrInvalidFormat,
	CodeInvalidTerminalKey:   ErrInvalidFormat,
	CodeInvalidTerminalKind:  ErrInvalidFormat,
	CodeInvalidTerminalState: ErrInvalidFormat,
	CodeInvalidTaxID:         ErrInvalidFormat,
	CodeInvalidDuration:      ErrInvalidFormat,
	CodeInvalidCommType:      ErrInvalidFormat,

	CodeAlreadyOn:                    ErrIllegalTransition,
	CodeAlreadyOff:                   ErrIllegalTransition,
	CodeAlreadySilent:                ErrIllegalTransition,
	CodeNotificationsAlreadyEnabled:  ErrIllegalTransition,
	CodeNotificationsAlreadyDisabled: ErrIllegalTransition,

	CodeDestinationOff:    ErrUnreachable,
	CodeDestinationBusy:   ErrUnreachable,
	CodeDestinationSilent: ErrUnreachable,

	CodeSourceUnavailable:      ErrNotPermitted,
	CodeNoOngoingCommunication: ErrNotPermitted,

	CodeUnsupportedAtOrigin:      ErrUnsupported,
	CodeUnsupportedAtDestination: ErrUnsupported,

	CodeUnrecognizedEntry: ErrUnrecognizedEntry,
}

// Error is a failed domain operation. Key names the offending client, terminal or
// communication; Comm is set when the failure concerns a communication type.
type Error struct {
	Code Code
	Key  string
	Comm CommKind
}

// NewError builds an Error for code and key.
func NewError(code Code, key string) *Error {
	return &Error{Code: code, Key: key}
}

// NewCommError builds an Error that also records the communication type involved.
func NewCommError(code Code, key string, comm CommKind) *Error {
	return &Error{Code: code, Key: key, Comm: comm}
}

func (e *Error) Error() string {
	if e.Comm != CommUnknown {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Key, e.Comm)
	}
	if e.Key == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Key)
}

// Unwrap returns the category sentinel of the error code.
func (e *Error) Unwrap() error {
	if cat, ok := codeCategory[e.Code]; ok {
		return cat
	}
	return nil
}

// CodeOf extracts the Code of err, or "" when err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
