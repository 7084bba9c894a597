package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobportal"

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served.",
		},
	)

	// ApplicationsSubmitted counts accepted applications.
	ApplicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "submitted_total",
			Help:      "Applications accepted.",
		},
	)

	// ApplicationTransitions counts status changes by target status.
	ApplicationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "transitions_total",
			Help:      "Application status transitions by target status.",
		},
		[]string{"status"},
	)

	// VacanciesDeleted counts deleted vacancies; CascadedApplications counts
	// the applications removed with them.
	VacanciesDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vacancies",
			Name:      "deleted_total",
			Help:      "Vacancies deleted.",
		},
	)
	CascadedApplications = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vacancies",
			Name:      "cascaded_applications_total",
			Help:      "Applications removed because their vacancy was deleted.",
		},
	)

	// BlobCleanupFailures counts blobs that could not be removed after a replace,
	// a delete or a failed record write.
	BlobCleanupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "cleanup_failures_total",
			Help:      "Blob deletions that failed and left an orphan object.",
		},
	)
)

// Register adds every collector to the default registry. It is safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			requestDuration,
			requestTotal,
			requestsInFlight,
			ApplicationsSubmitted,
			ApplicationTransitions,
			VacanciesDeleted,
			CascadedApplications,
			BlobCleanupFailures,
		)
	})
}

// EchoMiddleware records latency and status per route template.
func EchoMiddleware() echo.MiddlewareFunc {
	Register()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestsInFlight.Inc()
			defer requestsInFlight.Dec()

			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			labels := prometheus.Labels{
				"method": c.Request().Method,
				"path":   path,
				"status": strconv.Itoa(c.Response().Status),
			}

			requestDuration.With(labels).Observe(time.Since(start).Seconds())
			requestTotal.With(labels).Inc()
			return nil
		}
	}
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
