// internal/settings/view.go
//
// Merged settings document returned to callers.
package settings

import "github.com/videkhq/videk/internal/merge"

// View is the fully-merged configuration for one (site, language) request:
// identity, branding, SEO, and the layered payload sections.  It is the
// terminal output of the resolution pipeline and safe to serialize as-is.
type View struct {
	Site         SiteSection  `json:"site"`
	Brand        BrandSection `json:"brand"`
	SEO          SEOSection   `json:"seo"`
	Placeholders merge.Value  `json:"placeholders"`
	Map          merge.Value  `json:"map"`
	Features     merge.Value  `json:"features"`
}

// SiteSection carries the site identity in the translation language that
// actually served the request.  Language exposes which translation was
// used, so callers can apply their own policy when the requested language
// had no translation; the aggregator does not substitute silently.
type SiteSection struct {
	ID               uint64 `json:"id"`
	Language         string `json:"language"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	Description      string `json:"description"`
}

// BrandSection carries shared branding; Theme is the brand's free-form
// theme payload, passed through unmerged.
type BrandSection struct {
	Name       string      `json:"name"`
	LogoURL    string      `json:"logoUrl"`
	FaviconURL string      `json:"faviconUrl"`
	Theme      merge.Value `json:"theme"`
}

// SEOSection resolves the per-language SEO defaults.  Indexable is a
// scalar override (instance features seo.indexable, else the platform
// default), independent of the generic deep-merge.
type SEOSection struct {
	DefaultTitle       string `json:"defaultTitle"`
	DefaultDescription string `json:"defaultDescription"`
	Indexable          bool   `json:"indexable"`
}
