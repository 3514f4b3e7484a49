package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the allocation/notification domains.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	allocationsCreated   prometheus.Counter
	allocationsCancelled prometheus.Counter
	boxesReserved        prometheus.Counter
	notifications        *prometheus.CounterVec
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	allocationsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocations_created_total",
		Help: "Total allocations created",
	})

	allocationsCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocations_cancelled_total",
		Help: "Total allocations cancelled",
	})

	boxesReserved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "boxes_reserved_total",
		Help: "Total boxes reserved from inventory lots",
	})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Total milestone notification dispatch attempts",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, allocationsCreated, allocationsCancelled, boxesReserved, notifications, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:             registry,
		handler:              handler,
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		allocationsCreated:   allocationsCreated,
		allocationsCancelled: allocationsCancelled,
		boxesReserved:        boxesReserved,
		notifications:        notifications,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": fmt.Sprintf("%d", status),
	}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// IncAllocationCreated counts one created allocation and its boxes.
func (s *MetricsService) IncAllocationCreated(boxes int) {
	s.allocationsCreated.Inc()
	s.boxesReserved.Add(float64(boxes))
}

// IncAllocationCancelled counts one cancelled allocation.
func (s *MetricsService) IncAllocationCancelled() {
	s.allocationsCancelled.Inc()
}

// IncNotification counts one dispatch attempt by outcome.
func (s *MetricsService) IncNotification(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	s.notifications.WithLabelValues(outcome).Inc()
}
