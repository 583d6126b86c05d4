package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	backendCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autoadmin",
			Name:      "backend_calls_total",
			Help:      "Backend API calls by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	pageRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autoadmin",
			Name:      "page_renders_total",
			Help:      "Admin pages rendered.",
		},
		[]string{"page"},
	)

	refreshTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "autoadmin",
			Name:      "refresh_ticks_total",
			Help:      "Background snapshot refresh ticks.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(backendCalls, pageRenders, refreshTicks)
	})
}

// IncBackendCall records one backend API call for an endpoint label.
func IncBackendCall(endpoint, outcome string) {
	backendCalls.WithLabelValues(endpoint, outcome).Inc()
}

// IncPageRender records one page render.
func IncPageRender(page string) {
	pageRenders.WithLabelValues(page).Inc()
}

// IncRefreshTick records one background refresh tick.
func IncRefreshTick() {
	refreshTicks.Inc()
}
