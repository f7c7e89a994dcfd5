// internal/config/model.go
//
// Typed configuration model for Videk.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                     – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `VIDEK_`-prefixed environment overrides  – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so downstream code never
// sees Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "strings"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the control-plane DSN and its secret.  The DSN template
// lives in YAML so operators can tweak host, port, or flags without
// touching Vault; the password may be a `vault:` reference resolved at
// load time.
type Database struct {
	GlobalDSN      string `koanf:"global_dsn" validate:"required"`
	GlobalPassword string `koanf:"global_password"`
}

// DSN substitutes the resolved password into the DSN template.  The
// template marks the insertion point with `{password}`; a template with
// no placeholder passes through unchanged.
func (d Database) DSN() string {
	return strings.ReplaceAll(d.GlobalDSN, "{password}", d.GlobalPassword)
}

//
// Platform section
//

// Platform carries the deployment-wide resolution defaults.  They are
// injected into the resolvers at construction, never read from ambient
// process state, so resolution stays deterministic and testable.
type Platform struct {
	// DefaultSiteID is the canonical internal identifier resolved when a
	// request carries no public key (single-site deployments).
	DefaultSiteID string `koanf:"default_site_id" validate:"required"`

	// DefaultLanguage is the fallback target for unsupported codes and
	// missing translations.
	DefaultLanguage string `koanf:"default_language" validate:"required"`

	// Languages is the closed set of supported language codes.
	Languages []string `koanf:"languages" validate:"required,min=1,dive,required"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or VIDEK_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // VIDEK_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Platform Platform `koanf:"platform"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
