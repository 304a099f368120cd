package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search ranking modes reported in metrics labels.
const (
	ModeSemantic = "semantic"
	ModeLexical  = "lexical"
	ModeEmpty    = "empty"
	ModeError    = "error"
)

// SearchesTotal counts search calls by the degradation path taken.
var SearchesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "lexsearch",
		Name:      "searches_total",
		Help:      "Total search calls by ranking mode",
	},
	[]string{"mode"},
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	searchMetricsRegistered = true
}
