// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests no route pattern claimed, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// # Request Metrics

// HTTPMetrics holds the Prometheus collectors for request instrumentation.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

/*
NewHTTPMetrics builds the request collectors and registers them.

Description: Registering twice against the same registerer reuses the
collectors already there, so tests and restarts within one process do not fail.

Parameters:
  - registerer: prometheus.Registerer (nil means the default registry)
  - namespace: string (metric name prefix)

Returns:
  - *HTTPMetrics: ready-to-use collectors
  - error: registration conflicts with a differently typed collector
*/
func NewHTTPMetrics(registerer prometheus.Registerer, namespace string) (*HTTPMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	labels := []string{"method", "route", "status"}

	requests, err := register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
	}, labels))
	if err != nil {
		return nil, err
	}

	duration, err := register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latencies in seconds partitioned by method, route, and status code.",
		Buckets:   prometheus.DefBuckets,
	}, labels))
	if err != nil {
		return nil, err
	}

	inFlight, err := register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	}))
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{Requests: requests, Duration: duration, InFlight: inFlight}, nil
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) (C, error) {
	err := registerer.Register(collector)
	if err == nil {
		return collector, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
		return collector, fmt.Errorf("metrics: existing collector has unexpected type %T", already.ExistingCollector)
	}

	return collector, fmt.Errorf("metrics: register collector: %w", err)
}

type metricsRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *metricsRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// annotateAccount forwards to the access-log writer underneath.
func (recorder *metricsRecorder) annotateAccount(userID string) {
	if annotator, ok := recorder.ResponseWriter.(accountAnnotator); ok {
		annotator.annotateAccount(userID)
	}
}

func (recorder *metricsRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

// Handler records count, latency and concurrency for every request.
//
// The route label is the chi route pattern (e.g. /api/v1/admin/users/{id}),
// never the raw path. A nil receiver is a no-op.
func (metrics *HTTPMetrics) Handler(next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		metrics.InFlight.Inc()
		defer metrics.InFlight.Dec()

		recorder := &metricsRecorder{ResponseWriter: writer, status: http.StatusOK}
		next.ServeHTTP(recorder, request)

		route := unmatchedRoute
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		labels := prometheus.Labels{
			"method": request.Method,
			"route":  route,
			"status": strconv.Itoa(recorder.status),
		}

		metrics.Requests.With(labels).Inc()
		metrics.Duration.With(labels).Observe(time.Since(start).Seconds())
	})
}
