package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the registry counters.
const (
	ResultCreated      = "created"
	ResultUpdated      = "updated"
	ResultDeleted      = "deleted"
	ResultRendered     = "rendered"
	ResultInvalid      = "invalid"
	ResultConflict     = "conflict"
	ResultUnauthorized = "unauthorized"
	ResultNotFound     = "not_found"
	ResultError        = "error"
)

// Metrics provides observability for the profile registry.
// Tracks claim/removal/page outcomes and page render durations.
type Metrics struct {
	Claims         *prometheus.CounterVec
	Removals       *prometheus.CounterVec
	Pages          *prometheus.CounterVec
	RenderDuration prometheus.Histogram
}

// New creates the registry metrics and registers them with reg. A nil reg
// creates unregistered collectors, which tests use to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Claims: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "denote_profile_claims_total",
			Help: "Profile create/update requests by outcome",
		}, []string{"result"}),
		Removals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "denote_profile_removals_total",
			Help: "Profile delete requests by outcome",
		}, []string{"result"}),
		Pages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "denote_profile_pages_total",
			Help: "Profile page reads by outcome",
		}, []string{"result"}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "denote_profile_render_duration_seconds",
			Help:    "Duration of decoding and rendering a stored profile",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncClaim records a claim outcome.
func (m *Metrics) IncClaim(result string) {
	m.Claims.WithLabelValues(result).Inc()
}

// IncRemoval records a removal outcome.
func (m *Metrics) IncRemoval(result string) {
	m.Removals.WithLabelValues(result).Inc()
}

// IncPage records a page read outcome.
func (m *Metrics) IncPage(result string) {
	m.Pages.WithLabelValues(result).Inc()
}

// ObserveRender records the duration of a page render.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRender(start time.Time) {
	m.RenderDuration.Observe(time.Since(start).Seconds())
}
