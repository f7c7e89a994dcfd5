// internal/resolver/entity.go
//
// Content-slug → typed entity resolution.
//
// Context
// -------
// Content entities (towns, places, pages, events) are addressed by a
// tenant-scoped (tenant, language, slug) alias or by a globally-unique
// custom domain.  The domain is the stronger signal, so it wins when both
// are supplied; the slug path is tried when the domain misses.
//
// Resolution and activity gating are two separate checks: an inactive
// entity keeps its alias rows, resolves, and is then rejected with
// NotFound so it is never exposed.
package resolver

import (
	"context"

	"github.com/videkhq/videk/internal/errs"
	"github.com/videkhq/videk/internal/metrics"
	"github.com/videkhq/videk/internal/store"
)

// EntityResolver translates content aliases into (entity type, entity id)
// references.
type EntityResolver struct {
	store *store.Store
}

// NewEntityResolver returns a resolver bound to the store.
func NewEntityResolver(st *store.Store) *EntityResolver {
	return &EntityResolver{store: st}
}

// ResolveEntity resolves a content alias for one tenant.  Either slug or
// domain must be supplied; domain takes precedence.  Returns
// errs.ErrNotFound when no active alias matches in either mode, or when
// the referenced entity is itself inactive.
func (r *EntityResolver) ResolveEntity(ctx context.Context, tenantID uint64, language, slug, domain string) (store.EntityType, uint64, error) {
	rec, mode, err := r.lookup(ctx, tenantID, language, slug, domain)
	if err != nil {
		return "", 0, err
	}

	active, err := r.store.EntityActive(ctx, rec.EntityType, rec.EntityID)
	if err != nil {
		return "", 0, err
	}
	if !active {
		return "", 0, errs.NotFoundf("%s %d is inactive", rec.EntityType, rec.EntityID)
	}

	metrics.EntityResolveTotal.WithLabelValues(mode).Inc()
	return rec.EntityType, rec.EntityID, nil
}

func (r *EntityResolver) lookup(ctx context.Context, tenantID uint64, language, slug, domain string) (*store.Slug, string, error) {
	if domain != "" {
		rec, err := r.store.SlugByDomain(ctx, domain)
		if err == nil {
			return rec, "domain", nil
		}
		if !errs.IsNotFound(err) {
			return nil, "", err
		}
		// Domain miss falls through to the tenant-scoped slug, if any.
	}

	if slug == "" {
		return nil, "", errs.NotFoundf("entity for tenant %d (domain %q)", tenantID, domain)
	}
	rec, err := r.store.SlugByKey(ctx, tenantID, language, slug)
	if err != nil {
		return nil, "", err
	}
	return rec, "slug", nil
}
