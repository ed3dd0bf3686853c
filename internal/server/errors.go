package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"activityapi/internal/shared"
)

// Kind classifies failures by how they are surfaced to the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindInvalidInput
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

// Error is a request failure with a kind, a caller-facing message, and an
// optional cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Message: "Invalid input"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "Not Found"}
)

func invalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func invalidInputCause(msg string, cause error) error {
	return &Error{Kind: KindInvalidInput, Message: msg, Cause: cause}
}

// KindOf returns the kind of err; anything unclassified is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, shared.SuccessResponse{Success: true})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, shared.ErrorResponse{Error: "Not Found"})
}

func writeInternal(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, shared.ErrorResponse{
		Error:   "Internal Server Error",
		Message: msg,
	})
}

// writeError renders err according to its kind.
func writeError(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		writeInternal(w, err.Error())
		return
	}
	switch e.Kind {
	case KindUnauthorized:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Unauthorized"))
	case KindInvalidInput:
		writeJSON(w, http.StatusBadRequest, shared.ErrorResponse{Error: e.Message})
	case KindNotFound:
		writeNotFound(w)
	default:
		writeInternal(w, e.Error())
	}
}
