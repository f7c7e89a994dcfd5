// internal/store/model.go
//
// Row models for the Videk control-plane schema.
//
// Context
// -------
// One MySQL database backs every branded site on the deployment.  These
// structs mirror the persistent tables one-to-one and carry no behaviour;
// they exist for sqlx scans and for the resolvers and aggregator to read.
//
// Schema reference (2026-07-18)
//
//	CREATE TABLE site (
//	    id            BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    canonical_id  VARCHAR(128)  NOT NULL UNIQUE,
//	    brand_id      BIGINT UNSIGNED NOT NULL,
//	    is_active     TINYINT(1)    NOT NULL DEFAULT 1,
//	    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
//	CREATE TABLE site_translation (
//	    id, site_id, language, name, short_description, description,
//	    seo_title, seo_description, created_at, updated_at,
//	    UNIQUE (site_id, language)
//	);
//
//	CREATE TABLE brand (
//	    id, name, logo_url, favicon_url,
//	    theme JSON, placeholders JSON, map_defaults JSON,
//	    created_at, updated_at
//	);
//
//	CREATE TABLE site_key (
//	    id, language, slug, site_id, is_active, is_primary,
//	    created_at, updated_at,
//	    UNIQUE (language, slug)
//	);
//
//	CREATE TABLE content_slug (
//	    id, tenant_id, language, slug, domain NULL,
//	    entity_type, entity_id, is_active, is_primary, created_at,
//	    UNIQUE (tenant_id, language, slug)
//	);
//
//	CREATE TABLE site_instance (
//	    id, site_id, language, is_default,
//	    map_config JSON, features JSON,
//	    created_at, updated_at,
//	    UNIQUE (site_id, language)
//	);
//
// Notes
// -----
//   - `is_primary` SHOULD be unique per group but the schema does not
//     enforce it; the resolvers break ties deterministically instead.
//   - Public alias rows are never hard-deleted, only deactivated.
//   - Oxford commas, two spaces after periods.
package store

import (
	"database/sql"
	"time"
)

//
// Site and translations
//

// Site mirrors one row in the `site` table.  CanonicalID is the internal
// identifier that also serves as the backward-compatible direct address.
type Site struct {
	ID          uint64    `db:"id"`
	CanonicalID string    `db:"canonical_id"`
	BrandID     uint64    `db:"brand_id"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// SiteTranslation is one language's public copy for a site.  Rows are
// created independently per language; there is no innate ordering.
type SiteTranslation struct {
	ID               uint64    `db:"id"`
	SiteID           uint64    `db:"site_id"`
	Language         string    `db:"language"`
	Name             string    `db:"name"`
	ShortDescription string    `db:"short_description"`
	Description      string    `db:"description"`
	SEOTitle         string    `db:"seo_title"`
	SEODescription   string    `db:"seo_description"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

//
// Brand
//

// Brand holds shared branding defaults referenced by one or more sites.
// The three JSON payloads are open maps; see internal/merge.
type Brand struct {
	ID           uint64    `db:"id"`
	Name         string    `db:"name"`
	LogoURL      string    `db:"logo_url"`
	FaviconURL   string    `db:"favicon_url"`
	Theme        Payload   `db:"theme"`
	Placeholders Payload   `db:"placeholders"`
	MapDefaults  Payload   `db:"map_defaults"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

//
// Public aliases
//

// SiteKey is a public `(language, slug)` routing alias for a site.
type SiteKey struct {
	ID        uint64    `db:"id"`
	Language  string    `db:"language"`
	Slug      string    `db:"slug"`
	SiteID    uint64    `db:"site_id"`
	IsActive  bool      `db:"is_active"`
	IsPrimary bool      `db:"is_primary"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Slug is a public content alias scoped per tenant, resolving to a typed
// entity.  Domain is set only for white-labeled custom domains.
type Slug struct {
	ID         uint64         `db:"id"`
	TenantID   uint64         `db:"tenant_id"`
	Language   string         `db:"language"`
	Slug       string         `db:"slug"`
	Domain     sql.NullString `db:"domain"`
	EntityType EntityType     `db:"entity_type"`
	EntityID   uint64         `db:"entity_id"`
	IsActive   bool           `db:"is_active"`
	IsPrimary  bool           `db:"is_primary"`
	CreatedAt  time.Time      `db:"created_at"`
}

//
// Per-language runtime overrides
//

// SiteInstance is the per-(site, language) runtime configuration.  A site
// may legitimately have translations without an instance; callers treat a
// missing instance as "no overrides", not an error.
type SiteInstance struct {
	ID        uint64    `db:"id"`
	SiteID    uint64    `db:"site_id"`
	Language  string    `db:"language"`
	IsDefault bool      `db:"is_default"`
	MapConfig Payload   `db:"map_config"`
	Features  Payload   `db:"features"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

//
// Entity types
//

// EntityType is the closed enumeration of content entities a Slug may
// resolve to.
type EntityType string

const (
	EntityTown  EntityType = "town"
	EntityPlace EntityType = "place"
	EntityPage  EntityType = "page"
	EntityEvent EntityType = "event"
)

// entityTable maps each entity type onto its table.  Only members of this
// map are queryable, which keeps table names out of caller control.
var entityTable = map[EntityType]string{
	EntityTown:  "town",
	EntityPlace: "place",
	EntityPage:  "page",
	EntityEvent: "event",
}

// Valid reports whether t is a member of the closed enumeration.
func (t EntityType) Valid() bool {
	_, ok := entityTable[t]
	return ok
}
