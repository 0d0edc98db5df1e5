// Package metrics mirrors the exchange's process counters as
// Prometheus collectors. The core registers everything on a private
// registry and leaves exposition to the caller.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the exchange's collectors.
type Metrics struct {
	reg *prometheus.Registry

	MatchesTotal         prometheus.Counter
	InvalidRequestsTotal prometheus.Counter
	InterventionsTotal   prometheus.Counter
	TradedQuoteVolume    prometheus.Counter
	FeesCollected        prometheus.Counter
}

// New creates and registers the exchange collectors.
func New() *Metrics {
	m := &Metrics{
		reg:                  prometheus.NewRegistry(),
		MatchesTotal:         prometheus.NewCounter(prometheus.CounterOpts{Name: "exchange_matches_total", Help: "Completed matches"}),
		InvalidRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{Name: "exchange_invalid_requests_total", Help: "Rejected trader requests"}),
		InterventionsTotal:   prometheus.NewCounter(prometheus.CounterOpts{Name: "exchange_interventions_total", Help: "Open-market interventions"}),
		TradedQuoteVolume:    prometheus.NewCounter(prometheus.CounterOpts{Name: "exchange_traded_quote_volume", Help: "Cumulative traded volume in quote units"}),
		FeesCollected:        prometheus.NewCounter(prometheus.CounterOpts{Name: "exchange_fees_collected", Help: "Cumulative exchange fees in quote units"}),
	}
	m.reg.MustRegister(
		m.MatchesTotal,
		m.InvalidRequestsTotal,
		m.InterventionsTotal,
		m.TradedQuoteVolume,
		m.FeesCollected,
	)
	return m
}

// Registry exposes the underlying registry so the caller can attach
// its own exposition endpoint.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }
