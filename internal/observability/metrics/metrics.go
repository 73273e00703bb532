// Package metrics defines the Prometheus collectors the site exports.
// Every method is safe to call on a nil *Metrics so callers can run without metrics.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/damedesign/portfolio/internal/observability/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// Metrics holds all collectors.
type Metrics struct {
	RequestDuration    *prometheus.HistogramVec
	CacheLookups       *prometheus.CounterVec
	ContentMutations   *prometheus.CounterVec
	ContactSubmissions *prometheus.CounterVec
	SiteModeFallbacks  prometheus.Counter
	LoginAttempts      *prometheus.CounterVec
	FeedSubscribers    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "damedesign_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "damedesign_content_cache_lookups_total",
			Help: "Content cache lookups by key and result",
		}, []string{"key", "result"}),
		ContentMutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "damedesign_content_mutations_total",
			Help: "Admin content changes by collection and operation",
		}, []string{"collection", "op"}),
		ContactSubmissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "damedesign_contact_submissions_total",
			Help: "Contact form submissions by stage reached and result",
		}, []string{"stage", "result", "error_class"}),
		SiteModeFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "damedesign_site_mode_fallbacks_total",
			Help: "Site-mode reads that fell back to the static toggle",
		}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "damedesign_login_attempts_total",
			Help: "Admin login attempts by method and result",
		}, []string{"method", "result"}),
		FeedSubscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "damedesign_inbox_feed_subscribers",
			Help: "Open admin inbox feed connections",
		}),
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// CacheLookup records a content cache hit, miss or error.
func (m *Metrics) CacheLookup(key, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(key, result).Inc()
}

// ContentMutation records an admin change.
func (m *Metrics) ContentMutation(collection, op string) {
	if m == nil {
		return
	}
	m.ContentMutations.WithLabelValues(collection, op).Inc()
}

// ContactSubmission records how far a submission got. err is classified for the label.
func (m *Metrics) ContactSubmission(stage string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.ContactSubmissions.WithLabelValues(stage, result, obserrors.Classify(err)).Inc()
}

// SiteModeFallback records a fallback to the static toggle.
func (m *Metrics) SiteModeFallback() {
	if m == nil {
		return
	}
	m.SiteModeFallbacks.Inc()
}

// LoginAttempt records a login.
func (m *Metrics) LoginAttempt(method string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.LoginAttempts.WithLabelValues(method, result).Inc()
}

// FeedConnected adjusts the feed subscriber gauge by delta.
func (m *Metrics) FeedConnected(delta int) {
	if m == nil {
		return
	}
	m.FeedSubscribers.Add(float64(delta))
}
