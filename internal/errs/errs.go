// internal/errs/errs.go
//
// Error taxonomy shared by the store, resolvers, and HTTP boundary.
//
// Context
// -------
// The resolution core distinguishes exactly three outcomes:
//
//   - NotFound  — no entity resolves for the key/language combination.
//     Surfaced to the caller as a client-visible 404, never retried.
//   - Invalid   — malformed input at the boundary (unsupported language
//     code).  Rejected before resolution runs.
//   - Transient — entity-store unavailability.  Propagated as-is so the
//     caller can retry; never masked as NotFound.
//
// Resolution ambiguity (duplicate primary flags, missing default instance)
// is NOT an error.  It is resolved deterministically by the resolvers and
// logged as a data-quality warning.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package errs

import (
	"errors"
	"fmt"
)

//
// Sentinels
//

var (
	// ErrNotFound means no entity resolves for the given key.
	ErrNotFound = errors.New("not found")

	// ErrInvalid means the input was rejected at the boundary.
	ErrInvalid = errors.New("invalid input")

	// ErrTransient means the entity store failed; the caller may retry.
	ErrTransient = errors.New("transient store error")
)

//
// Wrapping helpers
//

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Invalidf wraps ErrInvalid with a formatted detail message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalid)...)
}

// Transient wraps a store error so callers can distinguish outages from
// missing rows.  A nil cause returns nil.
func Transient(cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrTransient, cause)
}

//
// Predicates
//

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsInvalid(err error) bool   { return errors.Is(err, ErrInvalid) }
func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }
