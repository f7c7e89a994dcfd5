// Package metrics holds Prometheus instruments used across the platform.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SiteResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_resolve_total",
			Help: "Site resolutions by mode (default, key, direct).",
		}, []string{"mode"})

	SiteResolveErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "site_resolve_errors_total",
			Help: "Site resolutions that ended in not-found or store errors.",
		})

	DuplicateSiteKeyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicate_site_key_total",
			Help: "Lookups that found more than one active SiteKey for a (language, slug) pair.",
		})

	EntityResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_resolve_total",
			Help: "Content entity resolutions by mode (domain, slug).",
		}, []string{"mode"})

	SettingsBuildTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settings_build_total",
			Help: "Cumulative number of merged settings views assembled.",
		})

	CachedResolutions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cached_resolutions",
			Help: "Number of (language, key) resolutions currently cached.",
		})

	ResolutionEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolution_evict_total",
			Help: "Cumulative number of cached resolutions evicted.",
		})
)

func init() {
	prometheus.MustRegister(
		SiteResolveTotal,
		SiteResolveErrorsTotal,
		DuplicateSiteKeyTotal,
		EntityResolveTotal,
		SettingsBuildTotal,
		CachedResolutions,
		ResolutionEvictTotal,
	)
}
