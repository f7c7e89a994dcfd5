// internal/resolver/site.go
//
// Public-key → site resolution.
//
// Context
// -------
// Every public request carries a language code and, usually, an opaque
// public key.  Resolution runs three modes in order:
//
//  1. No key (single-site deployments) — resolve the configured default
//     site by its canonical internal identifier.
//  2. Active SiteKey rows matching (language, key).
//  3. Direct addressing — interpret the key as a canonical internal
//     identifier (backward compatibility for pre-SiteKey callers).
//
// The store's unique index should make mode 2 a single row, but the index
// is not trusted: duplicates are broken by an explicit total order so the
// same input always yields the same site.  Ambiguity is never an error; it
// is logged as a data-quality warning and counted.
//
// Side effects: none.  Pure reads; callers may layer a cache keyed on
// (language, key), invalidated on SiteKey mutation (see internal/sitecache).
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package resolver

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/videkhq/videk/internal/errs"
	"github.com/videkhq/videk/internal/metrics"
	"github.com/videkhq/videk/internal/store"
)

// SiteResolver translates (language, publicKey) pairs into internal site
// ids.  The default canonical id is injected at construction, never read
// from ambient process state.
type SiteResolver struct {
	store       *store.Store
	defaultSite string // canonical id used when no key is supplied
}

// NewSiteResolver returns a resolver bound to the store and the configured
// default site.
func NewSiteResolver(st *store.Store, defaultCanonicalID string) *SiteResolver {
	return &SiteResolver{store: st, defaultSite: defaultCanonicalID}
}

// ResolveSite resolves publicKey in the given language to a site id.  An
// empty key selects the configured default site.  Returns errs.ErrNotFound
// when nothing resolves, errs.ErrTransient on store failure.
func (r *SiteResolver) ResolveSite(ctx context.Context, language, publicKey string) (uint64, error) {
	if publicKey == "" {
		site, err := r.store.SiteByCanonicalID(ctx, r.defaultSite)
		if err != nil {
			metrics.SiteResolveErrorsTotal.Inc()
			return 0, err
		}
		metrics.SiteResolveTotal.WithLabelValues("default").Inc()
		return site.ID, nil
	}

	keys, err := r.store.ActiveSiteKeys(ctx, language, publicKey)
	if err != nil {
		metrics.SiteResolveErrorsTotal.Inc()
		return 0, err
	}

	if len(keys) > 0 {
		if len(keys) > 1 {
			// Data-quality anomaly; resolved deterministically below.
			metrics.DuplicateSiteKeyTotal.Inc()
			zap.L().Warn("duplicate active site keys",
				zap.String("language", language),
				zap.String("key", publicKey),
				zap.Int("count", len(keys)))
		}
		sort.SliceStable(keys, func(i, j int) bool { return keyLess(&keys[i], &keys[j]) })
		metrics.SiteResolveTotal.WithLabelValues("key").Inc()
		return keys[0].SiteID, nil
	}

	// Direct addressing fallback: the key may be a canonical id itself.
	site, err := r.store.SiteByCanonicalID(ctx, publicKey)
	if err != nil {
		if errs.IsNotFound(err) {
			metrics.SiteResolveErrorsTotal.Inc()
			return 0, errs.NotFoundf("site for (%s, %q)", language, publicKey)
		}
		metrics.SiteResolveErrorsTotal.Inc()
		return 0, err
	}
	metrics.SiteResolveTotal.WithLabelValues("direct").Inc()
	return site.ID, nil
}

// keyLess is the total order for duplicate SiteKey rows: primary flag
// first, then earliest creation, then lowest id.  The id tail makes the
// order total even for equal timestamps, so retries are idempotent.
func keyLess(a, b *store.SiteKey) bool {
	if a.IsPrimary != b.IsPrimary {
		return a.IsPrimary
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
