// internal/settings/aggregator.go
//
// Configuration aggregation: platform defaults < Brand < SiteInstance.
//
// Context
// -------
// Given a resolved site id and a language, the aggregator loads the three
// configuration layers and produces the merged View:
//
//  1. Normalize the language onto the supported set (never an error here;
//     the boundary already rejected truly invalid codes).
//  2. Load site + brand + translations + instance in one bundle.  A
//     missing instance is an all-absent override layer, not an error.
//  3. Map section:      platform defaults ← brand mapDefaults ← instance
//     mapConfig.
//  4. Feature section:  platform defaults ← instance features.
//  5. Placeholders:     brand only.  Instances may not redefine shared
//     imagery, so the instance payload never touches this section.
//  6. SEO indexable:    instance features seo.indexable, else platform
//     default — a scalar override outside the structural merge.
//
// The merge itself never fails; the only failure mode is NotFound when the
// site or its entire translation fallback chain is missing.
package settings

import (
	"context"

	"go.uber.org/zap"

	"github.com/videkhq/videk/internal/errs"
	"github.com/videkhq/videk/internal/language"
	"github.com/videkhq/videk/internal/merge"
	"github.com/videkhq/videk/internal/metrics"
	"github.com/videkhq/videk/internal/store"
)

// Aggregator assembles merged settings views.  Stateless and safe for
// concurrent use.
type Aggregator struct {
	store *store.Store
	langs *language.Set
}

// NewAggregator returns an aggregator bound to the store and the
// configured language set.
func NewAggregator(st *store.Store, langs *language.Set) *Aggregator {
	return &Aggregator{store: st, langs: langs}
}

// View builds the merged settings view for one resolved site.  Returns
// errs.ErrNotFound when the site is missing or has no translation in the
// requested or fallback language.
func (a *Aggregator) View(ctx context.Context, lang string, siteID uint64) (*View, error) {
	lang = a.langs.Normalize(lang)
	fallback := a.langs.Fallback()

	b, err := a.store.SiteBundle(ctx, siteID, lang, fallback)
	if err != nil {
		return nil, err
	}

	tr, trLang := b.Translations[lang], lang
	if tr == nil {
		tr, trLang = b.Translations[fallback], fallback
	}
	if tr == nil {
		return nil, errs.NotFoundf("site %d has no translation in %q or %q", siteID, lang, fallback)
	}

	var instMap, instFeatures merge.Value
	if b.Instance == nil {
		zap.L().Debug("no site instance, serving brand defaults",
			zap.Uint64("site_id", siteID),
			zap.String("language", lang))
	} else {
		instMap = b.Instance.MapConfig.Merge()
		instFeatures = b.Instance.Features.Merge()
	}

	v := &View{
		Site: SiteSection{
			ID:               b.Site.ID,
			Language:         trLang,
			Name:             tr.Name,
			ShortDescription: tr.ShortDescription,
			Description:      tr.Description,
		},
		Brand: BrandSection{
			Name:       b.Brand.Name,
			LogoURL:    b.Brand.LogoURL,
			FaviconURL: b.Brand.FaviconURL,
			Theme:      b.Brand.Theme.Merge(),
		},
		SEO: SEOSection{
			DefaultTitle:       tr.SEOTitle,
			DefaultDescription: tr.SEODescription,
			Indexable:          seoIndexable(instFeatures),
		},
		Placeholders: merge.Merge(defaultPlaceholders(), b.Brand.Placeholders.Merge()),
		Map:          merge.Layer(defaultMap(), b.Brand.MapDefaults.Merge(), instMap),
		Features:     merge.Merge(defaultFeatures(), instFeatures),
	}

	metrics.SettingsBuildTotal.Inc()
	return v, nil
}

// seoIndexable resolves the single indexability boolean: the instance's
// features.seo.indexable when present and boolean, else the platform
// default.  Deliberately not part of the structural merge.
func seoIndexable(instFeatures merge.Value) bool {
	seo, ok := instFeatures["seo"].(map[string]any)
	if !ok {
		return seoIndexableDefault
	}
	if v, ok := seo["indexable"].(bool); ok {
		return v
	}
	return seoIndexableDefault
}
