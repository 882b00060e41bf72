// Package metrics holds the Prometheus instruments for the settings
// subsystem.  All collectors are registered with the global registry,
// so importing this package is enough to expose them wherever promhttp
// is mounted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ResolveTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fapilog_settings_resolve_total",
			Help: "Cumulative number of settings resolution attempts.",
		})

	ResolveErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fapilog_settings_resolve_errors_total",
			Help: "Cumulative number of failed settings resolutions.",
		})

	ResolveIssuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fapilog_settings_resolve_issues_total",
			Help: "Resolution issues by kind (parse, coercion, unknown-field, ambiguous-key, validation).",
		},
		[]string{"kind"})

	ReloadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fapilog_settings_reload_total",
			Help: "Cumulative number of settings reloads.",
		})
)

func init() {
	prometheus.MustRegister(
		ResolveTotal,
		ResolveErrorsTotal,
		ResolveIssuesTotal,
		ReloadTotal,
	)
}
