// Package apperr defines the transport-independent error taxonomy shared by rule engines,
// search cores, the orchestrator and the HTTP surface.
package apperr

import (
	"errors"
	"fmt"
)

// Code is one of the taxonomy entries from the error handling design.
type Code string

const (
	NotFound     Code = "not_found"
	Unauthorized Code = "unauthorized"
	Forbidden    Code = "forbidden"
	GameOver     Code = "game_over"
	IllegalMoveCode Code = "illegal_move"
	BadRequest   Code = "bad_request"
	Internal     Code = "internal"
	// NotYourTurn is raised when the requesting principal doesn't match current_turn.
	NotYourTurn Code = "not_your_turn"
)

// Error is a typed failure carrying a Code, a human-readable message and, for illegal
// moves, a short machine-readable Reason (e.g. "source-empty", "wall-conflict").
type Error struct {
	Code    Code
	Reason  string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// CodeOf returns the Code of err, or Internal if err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

func Unauthorizedf(format string, args ...any) *Error {
	return New(Unauthorized, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return New(Forbidden, format, args...)
}

func NotYourTurnf(format string, args ...any) *Error {
	return New(NotYourTurn, format, args...)
}

func GameOverf(format string, args ...any) *Error {
	return New(GameOver, format, args...)
}

func BadRequestf(format string, args ...any) *Error {
	return New(BadRequest, format, args...)
}

func Internalf(format string, args ...any) *Error {
	return New(Internal, format, args...)
}

// IllegalMove returns an illegal_move error with the given short reason.
func IllegalMove(reason, format string, args ...any) *Error {
	return &Error{Code: IllegalMoveCode, Reason: reason, Message: fmt.Sprintf(format, args...)}
}
