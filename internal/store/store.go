// internal/store/store.go
//
// Keyed lookups against the control-plane database.
//
// Context
// -------
// The resolvers and the settings aggregator consume this contract:
// composite-key lookups for sites, public aliases, and per-language
// overrides.  Every helper executes a bounded number of parameterised
// SELECTs; there is no scanning, no caching, and no write path here (see
// ensure.go for the idempotent upserts).
//
// Error mapping
// -------------
// sql.ErrNoRows on a single-row get becomes errs.ErrNotFound.  Every other
// database failure is wrapped as errs.ErrTransient so an outage is never
// mistaken for a missing row.  List helpers return empty slices, not
// NotFound.
//
// Notes
// -----
//   - Column lists match the structs in model.go; update both together.
//   - Soft-disable only: `is_active` filters at SQL level, never DELETE.
//   - Oxford commas, two spaces after periods.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/videkhq/videk/internal/errs"
)

// Store wraps the control-plane pool.  Safe for concurrent use; all
// methods are pure reads unless documented otherwise.
type Store struct {
	db *sqlx.DB
}

// New returns a Store bound to the given pool.
func New(db *sqlx.DB) *Store { return &Store{db: db} }

//
// Site lookups
//

// SiteByCanonicalID fetches one active site by its canonical internal
// identifier.  Used for single-site deployments and for the direct
// addressing fallback.
func (s *Store) SiteByCanonicalID(ctx context.Context, canonicalID string) (*Site, error) {
	const q = `
	    SELECT id, canonical_id, brand_id, is_active, created_at, updated_at
	    FROM   site
	    WHERE  canonical_id = ?
	      AND  is_active = TRUE
	    LIMIT  1`
	var rec Site
	if err := s.db.GetContext(ctx, &rec, q, canonicalID); err != nil {
		return nil, mapGetErr(err, "site %q", canonicalID)
	}
	return &rec, nil
}

// SiteByID fetches one active site row by primary key.
func (s *Store) SiteByID(ctx context.Context, id uint64) (*Site, error) {
	const q = `
	    SELECT id, canonical_id, brand_id, is_active, created_at, updated_at
	    FROM   site
	    WHERE  id = ?
	      AND  is_active = TRUE
	    LIMIT  1`
	var rec Site
	if err := s.db.GetContext(ctx, &rec, q, id); err != nil {
		return nil, mapGetErr(err, "site id %d", id)
	}
	return &rec, nil
}

//
// SiteKey lookups
//

// ActiveSiteKeys returns every active SiteKey matching (language, slug).
// The unique index should make this a single row, but the resolver
// tolerates duplicates, so no LIMIT is applied and no ordering is assumed
// here; the tie-break lives in the resolver.
func (s *Store) ActiveSiteKeys(ctx context.Context, language, slug string) ([]SiteKey, error) {
	const q = `
	    SELECT id, language, slug, site_id, is_active, is_primary,
	           created_at, updated_at
	    FROM   site_key
	    WHERE  language = ?
	      AND  slug     = ?
	      AND  is_active = TRUE`
	var rows []SiteKey
	if err := s.db.SelectContext(ctx, &rows, q, language, slug); err != nil {
		return nil, errs.Transient(err)
	}
	return rows, nil
}

// SiteKeysBySite returns all keys, active or not, pointing at one site.
// Admin tooling uses this for rename and deactivation flows.
func (s *Store) SiteKeysBySite(ctx context.Context, siteID uint64) ([]SiteKey, error) {
	const q = `
	    SELECT id, language, slug, site_id, is_active, is_primary,
	           created_at, updated_at
	    FROM   site_key
	    WHERE  site_id = ?`
	var rows []SiteKey
	if err := s.db.SelectContext(ctx, &rows, q, siteID); err != nil {
		return nil, errs.Transient(err)
	}
	return rows, nil
}

//
// Content slug lookups
//

// SlugByKey fetches one active content alias by its tenant-scoped
// compound key.
func (s *Store) SlugByKey(ctx context.Context, tenantID uint64, language, slug string) (*Slug, error) {
	const q = `
	    SELECT id, tenant_id, language, slug, domain, entity_type, entity_id,
	           is_active, is_primary, created_at
	    FROM   content_slug
	    WHERE  tenant_id = ?
	      AND  language  = ?
	      AND  slug      = ?
	      AND  is_active = TRUE
	    LIMIT  1`
	var rec Slug
	if err := s.db.GetContext(ctx, &rec, q, tenantID, language, slug); err != nil {
		return nil, mapGetErr(err, "slug %q (tenant %d, %s)", slug, tenantID, language)
	}
	return &rec, nil
}

// SlugByDomain fetches one active content alias by its globally-unique
// custom domain.
func (s *Store) SlugByDomain(ctx context.Context, domain string) (*Slug, error) {
	const q = `
	    SELECT id, tenant_id, language, slug, domain, entity_type, entity_id,
	           is_active, is_primary, created_at
	    FROM   content_slug
	    WHERE  domain = ?
	      AND  is_active = TRUE
	    LIMIT  1`
	var rec Slug
	if err := s.db.GetContext(ctx, &rec, q, domain); err != nil {
		return nil, mapGetErr(err, "domain %q", domain)
	}
	return &rec, nil
}

// EntityActive reports whether the referenced entity row is itself active.
// Alias resolution and entity-level gating are two separate checks; an
// inactive entity keeps its slugs but must not be exposed.
func (s *Store) EntityActive(ctx context.Context, et EntityType, id uint64) (bool, error) {
	table, ok := entityTable[et]
	if !ok {
		return false, errs.Invalidf("entity type %q", string(et))
	}
	q := `SELECT is_active FROM ` + table + ` WHERE id = ? LIMIT 1`

	var active bool
	err := s.db.GetContext(ctx, &active, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errs.Transient(err)
	}
	return active, nil
}

//
// Settings bundle
//

// Bundle aggregates everything the settings aggregator needs for one
// (site, language) pair.  Translations holds at most the requested and the
// fallback language; Instance is nil when no override row exists.
type Bundle struct {
	Site         Site
	Brand        Brand
	Translations map[string]*SiteTranslation
	Instance     *SiteInstance
}

// SiteBundle loads the site, its brand, its translations for the requested
// and fallback languages, and its SiteInstance for the requested language.
// A missing translation or instance is not an error here; validity rules
// are the aggregator's concern.
func (s *Store) SiteBundle(ctx context.Context, siteID uint64, language, fallback string) (*Bundle, error) {
	site, err := s.SiteByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	const brandQ = `
	    SELECT id, name, logo_url, favicon_url, theme, placeholders,
	           map_defaults, created_at, updated_at
	    FROM   brand
	    WHERE  id = ?
	    LIMIT  1`
	var brand Brand
	if err := s.db.GetContext(ctx, &brand, brandQ, site.BrandID); err != nil {
		return nil, mapGetErr(err, "brand id %d", site.BrandID)
	}

	const trQ = `
	    SELECT id, site_id, language, name, short_description, description,
	           seo_title, seo_description, created_at, updated_at
	    FROM   site_translation
	    WHERE  site_id = ?
	      AND  language IN (?, ?)`
	var trRows []SiteTranslation
	if err := s.db.SelectContext(ctx, &trRows, trQ, siteID, language, fallback); err != nil {
		return nil, errs.Transient(err)
	}
	translations := make(map[string]*SiteTranslation, len(trRows))
	for i := range trRows {
		translations[trRows[i].Language] = &trRows[i]
	}

	const instQ = `
	    SELECT id, site_id, language, is_default, map_config, features,
	           created_at, updated_at
	    FROM   site_instance
	    WHERE  site_id  = ?
	      AND  language = ?`
	var instances []SiteInstance
	if err := s.db.SelectContext(ctx, &instances, instQ, siteID, language); err != nil {
		return nil, errs.Transient(err)
	}

	return &Bundle{
		Site:         *site,
		Brand:        brand,
		Translations: translations,
		Instance:     pickInstance(instances),
	}, nil
}

// pickInstance selects deterministically when the single-default invariant
// is violated: default flag first, then earliest creation, then lowest id.
func pickInstance(rows []SiteInstance) *SiteInstance {
	var best *SiteInstance
	for i := range rows {
		r := &rows[i]
		if best == nil || instanceLess(r, best) {
			best = r
		}
	}
	return best
}

func instanceLess(a, b *SiteInstance) bool {
	if a.IsDefault != b.IsDefault {
		return a.IsDefault
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

//
// Error mapping helper
//

func mapGetErr(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFoundf(format, args...)
	}
	return errs.Transient(err)
}
