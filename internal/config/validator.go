// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.
//
// Beyond `required`, the platform block checks that the default language
// is a member of the supported set, so the fallback chain can never dangle.

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	return validatePlatform(&c.Platform)
}

// validatePlatform enforces cross-field rules the tag syntax cannot
// express.
func validatePlatform(p *Platform) error {
	def := strings.ToLower(p.DefaultLanguage)
	for _, l := range p.Languages {
		if strings.ToLower(l) == def {
			return nil
		}
	}
	return fmt.Errorf("platform.default_language %q is not in platform.languages %v",
		p.DefaultLanguage, p.Languages)
}
