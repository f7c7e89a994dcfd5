// internal/settings/defaults.go
//
// Hard-coded platform defaults: the lowest-precedence configuration layer.
//
// Each helper returns a fresh copy so callers can merge onto the result
// without cross-request aliasing.
package settings

import "github.com/videkhq/videk/internal/merge"

// seoIndexableDefault is the platform SEO indexability when neither brand
// nor instance says otherwise.
const seoIndexableDefault = true

// defaultMap returns the platform map layer: OSM provider with every
// geometry key present but null, so brand and instance overlays have a
// stable shape to land on.
func defaultMap() merge.Value {
	return merge.Value{
		"provider": "osm",
		"style":    nil,
		"center":   nil,
		"zoom":     nil,
		"bounds":   nil,
		"cluster":  nil,
		"marker":   nil,
	}
}

// defaultFeatures returns the platform feature flags: everything enabled
// except the blog, which is opt-in per instance.
func defaultFeatures() merge.Value {
	return merge.Value{
		"events":        true,
		"blog":          false,
		"knowledgeBase": true,
		"cookieConsent": true,
	}
}

// defaultPlaceholders returns the null placeholder imagery layer.  Only
// the Brand may fill these in; instances never contribute placeholders.
func defaultPlaceholders() merge.Value {
	return merge.Value{
		"placeCard": nil,
		"placeHero": nil,
		"eventCard": nil,
		"avatar":    nil,
	}
}
