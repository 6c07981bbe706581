// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fitfamily"

// Registry holds every collector of the service. It is private so tests can
// scrape it without global state from other packages.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// HTTPRequests counts served requests.
	//
	// Labels: route (mux pattern), code (status code).
	HTTPRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	HTTPDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// LLMCalls counts model calls.
	//
	// Labels: provider, status ("success" or "error").
	LLMCalls = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Model calls by provider and outcome.",
		},
		[]string{"provider", "status"},
	)

	LLMDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of model calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	// Directives counts assistant replies by directive outcome.
	//
	// Labels: outcome ("absent", "applied", "malformed").
	Directives = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "directives_total",
			Help:      "Assistant replies by directive outcome.",
		},
		[]string{"outcome"},
	)

	// Generations counts recommendation sets written.
	//
	// Labels: source ("static", "model", "fallback").
	Generations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommendations",
			Name:      "generated_total",
			Help:      "Recommendation sets generated by source.",
		},
		[]string{"source"},
	)

	OnboardingCompletions = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "onboarding",
			Name:      "completions_total",
			Help:      "Onboarding conversations or forms that completed a health profile.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
