package domain

import (
	"errors"
	"fmt"
)

// User-facing messages carried by flow states
const (
	MsgInvalidImage   = "Please select a valid image file."
	MsgShareFailed    = "Failed to process the image. Please try again."
	MsgEmptyKey       = "Please enter a share key."
	MsgNotFound       = "Image not found. The key is invalid or the image has been removed."
	MsgRetrieveFailed = "An error occurred while retrieving the image."
)

// ErrNotFound marks a key that is absent from the store.
// It is a valid outcome, not a failure of the store.
var ErrNotFound = errors.New("share key not found")

// ValidationError is returned for input the user can correct
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// EncodeError wraps a failure while turning image bytes into text
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode image: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError is returned when stored text is not a well-formed encoding
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode image: %s: %v", e.Reason, e.Err)
	}
	return "decode image: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StoreErrorKind classifies persistence failures
type StoreErrorKind int

const (
	StoreUnavailable StoreErrorKind = iota
	StoreFull
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreFull:
		return "store full"
	default:
		return "store unavailable"
	}
}

// StoreError is returned when the persistence medium rejects a read or write
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreFullError builds a StoreError of kind StoreFull
func NewStoreFullError(op string, err error) error {
	return &StoreError{Kind: StoreFull, Op: op, Err: err}
}

// NewStoreUnavailableError builds a StoreError of kind StoreUnavailable
func NewStoreUnavailableError(op string, err error) error {
	return &StoreError{Kind: StoreUnavailable, Op: op, Err: err}
}

// IsStoreFull reports whether err is a StoreError of kind StoreFull
func IsStoreFull(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == StoreFull
}
