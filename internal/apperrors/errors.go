// Package apperrors defines the domain error taxonomy shared by repositories,
// services and handlers. All business failures surface as one of these
// sentinels (usually wrapped with context via fmt.Errorf and %w) so callers
// can branch with errors.Is without string matching.
package apperrors

import "errors"

var (
	// ErrValidation covers malformed input: non-positive quantities,
	// negative amounts, missing identifiers.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a client, gate pass or invoice does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrOverReturn is returned when a cylinder return would exceed the
	// client's pending custody for the raw capacity.
	ErrOverReturn = errors.New("return exceeds pending custody")

	// ErrOverpayment is returned when a weekly payment would exceed the
	// remaining payable on the invoice.
	ErrOverpayment = errors.New("payment exceeds remaining payable")

	// ErrInvalidState is returned on an illegal state machine transition.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrInvariant marks an internal inconsistency (e.g. a computed negative
	// balance). The write that caused it is refused, never clamped.
	ErrInvariant = errors.New("invariant violation")
)
