package provider

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindTransport    Kind = "transport"
	KindStatusCode   Kind = "status_code"
	KindNoAsset      Kind = "no_asset"
)

// ErrNoAsset means the provider accepted an image request but returned
// nothing usable. It is distinct from transport and provider errors.
var ErrNoAsset = errors.New("generation failed")

// Error is returned by every Gateway method. Message carries the provider's
// own text unchanged so it can be shown to users as-is.
type Error struct {
	Kind    Kind
	Message string
	// HTTP status reported by the provider, when there was one
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func noAsset() *Error {
	return &Error{Kind: KindNoAsset, Message: ErrNoAsset.Error(), Err: ErrNoAsset}
}
