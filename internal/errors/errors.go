// Package errors provides sentinel errors and error types for chessdb.
// Every typed error unwraps to its sentinel so callers can branch with
// errors.Is() and recover context with errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrParse indicates movetext that could not be turned into a game.
	ErrParse = errors.New("parse error")

	// ErrRange indicates an index outside the valid bounds of a game.
	ErrRange = errors.New("index out of range")

	// ErrUnsupportedOperator indicates an index strategy that is not implemented.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that cannot be played in the current position.
	ErrIllegalMove = errors.New("illegal move")

	// ErrAmbiguousMove indicates a move that more than one piece could make.
	ErrAmbiguousMove = errors.New("ambiguous move")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound indicates a stored game that does not exist.
	ErrNotFound = errors.New("not found")
)

// ParseError describes a failure to parse movetext or a position.
// The underlying cause (for example ErrIllegalMove) is kept in Err;
// errors.Is(err, ErrParse) is always true.
type ParseError struct {
	Err   error  // The underlying error
	Input string // The text being parsed (may be truncated for display)
	Ply   int    // 1-based half-move at which parsing failed (0 if not applicable)
	Token string // The offending token, if known
}

// Error returns a formatted error message including all available context.
func (e *ParseError) Error() string {
	var parts []string

	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if e.Token != "" {
		parts = append(parts, fmt.Sprintf("token %q", e.Token))
	}
	if e.Input != "" {
		parts = append(parts, fmt.Sprintf("in %q", abbreviate(e.Input, 40)))
	}

	msg := "parse error"
	if len(parts) > 0 {
		msg += " at " + strings.Join(parts, ", ")
	}
	if e.Err != nil && e.Err != ErrParse {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// RangeError describes an index outside [0, Length] (or [0, Length) for
// element access).
type RangeError struct {
	Op     string // The operation that rejected the index
	Index  int
	Length int
}

// Error returns a formatted error message.
func (e *RangeError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: index %d out of range for game of length %d", e.Op, e.Index, e.Length)
	}
	return fmt.Sprintf("index %d out of range for game of length %d", e.Index, e.Length)
}

// Is reports whether target is ErrRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}

// UnsupportedOperatorError is returned for index strategies other than
// containment.
type UnsupportedOperatorError struct {
	Strategy string
}

// Error returns a formatted error message.
func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator: strategy %s", e.Strategy)
}

// Is reports whether target is ErrUnsupportedOperator.
func (e *UnsupportedOperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

// RowError wraps errors with input context, including the row number and
// source file. It supports unwrapping via errors.Is() and errors.As().
type RowError struct {
	Err  error  // The underlying error
	Row  int    // 1-based row or game number in the source
	File string // Source file name (if known)
}

// Error returns a formatted error message including all available context.
func (e *RowError) Error() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, e.File)
	}
	parts = append(parts, fmt.Sprintf("row %d", e.Row))

	context := strings.Join(parts, ", ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is is errors.Is, re-exported so callers need only one errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported so callers need only one errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
