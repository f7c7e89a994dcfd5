// internal/language/language.go
//
// Supported-language set and normalization.
//
// Context
// -------
// Public requests carry a language code from a fixed small set.  The HTTP
// boundary rejects unsupported codes outright; everything past the boundary
// only normalizes.  The set and its default are injected from configuration
// at construction so resolution stays deterministic and testable, never
// read from ambient process state.
package language

import "strings"

// Set is an immutable collection of supported language codes plus the
// platform default used as the fallback target.  Construct with New.
type Set struct {
	codes    map[string]struct{}
	fallback string
}

// New builds a Set from the configured codes.  The fallback is always a
// member, even when the configured list omits it.
func New(codes []string, fallback string) *Set {
	s := &Set{
		codes:    make(map[string]struct{}, len(codes)+1),
		fallback: normalize(fallback),
	}
	for _, c := range codes {
		s.codes[normalize(c)] = struct{}{}
	}
	s.codes[s.fallback] = struct{}{}
	return s
}

// Valid reports whether code is a supported language.  Used by the
// boundary; the resolver layers never reject, only normalize.
func (s *Set) Valid(code string) bool {
	_, ok := s.codes[normalize(code)]
	return ok
}

// Normalize maps code onto the supported set, falling back to the platform
// default for anything unsupported.  Never errors.
func (s *Set) Normalize(code string) string {
	c := normalize(code)
	if _, ok := s.codes[c]; ok {
		return c
	}
	return s.fallback
}

// Fallback returns the platform default language.
func (s *Set) Fallback() string { return s.fallback }

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
