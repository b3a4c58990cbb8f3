// Package wire defines the identity backend's request/response contract:
// the response envelope, request messages, method names and the JSON codec
// the gRPC transport uses to carry them.
package wire

import (
	"errors"
	"strings"
)

// Envelope is the shape of every backend response. Success=false implies
// Data is absent and Message should be surfaced to the caller.
type Envelope[T any] struct {
	Success bool     `json:"success"`
	Data    *T       `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Failure is the failure arm of a backend result. It is returned as an error
// so callers can recover the message with errors.As.
type Failure struct {
	Message string
	Errors  []string
}

// NewFailure builds a Failure with optional detail lines.
func NewFailure(message string, details ...string) *Failure {
	return &Failure{Message: message, Errors: details}
}

func (f *Failure) Error() string {
	if len(f.Errors) == 0 {
		return f.Message
	}
	return f.Message + ": " + strings.Join(f.Errors, "; ")
}

// OK wraps data in a success envelope.
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data}
}

// Fail wraps err in a failure envelope. A *Failure is carried as is; any
// other error becomes fallback with a generic detail line.
func Fail[T any](err error, fallback string) Envelope[T] {
	var f *Failure
	if errors.As(err, &f) {
		return Envelope[T]{Message: f.Message, Errors: f.Errors}
	}
	return Envelope[T]{Message: fallback, Errors: []string{"An unexpected error occurred"}}
}

// From builds the envelope for a (value, error) pair.
func From[T any](data *T, err error, fallback string) Envelope[T] {
	if err != nil {
		return Fail[T](err, fallback)
	}
	if data == nil {
		return Envelope[T]{Message: fallback}
	}
	return OK(*data)
}

// Result turns the envelope into the Go (value, error) pair. A failure, or a
// success without data, yields a *Failure whose message defaults to fallback.
func (e Envelope[T]) Result(fallback string) (*T, error) {
	if e.Success && e.Data != nil {
		return e.Data, nil
	}
	msg := e.Message
	if msg == "" {
		msg = fallback
	}
	return nil, &Failure{Message: msg, Errors: e.Errors}
}
