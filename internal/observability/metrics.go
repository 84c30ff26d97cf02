package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	relayConnectionsTotal prometheus.Counter
	relayScansTotal       *prometheus.CounterVec
	dispatchUploads       *prometheus.CounterVec
	uploadLatencySeconds  prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ims_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ims_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ims_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		relayConnectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ims_relay_connections_total",
			Help: "Total number of scan relay websocket connections accepted.",
		})

		relayScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ims_relay_scans_total",
			Help: "Total number of qr-scan events processed, by outcome.",
		}, []string{"outcome"})

		dispatchUploads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ims_dispatch_uploads_total",
			Help: "Total number of dispatch manifest uploads, by result.",
		}, []string{"result"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ims_upload_latency_seconds",
			Help:    "Latency distribution for document uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			relayConnectionsTotal,
			relayScansTotal,
			dispatchUploads,
			uploadLatencySeconds,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// RelayConnections exposes the relay connection counter.
func RelayConnections() prometheus.Counter {
	RegisterMetrics()
	return relayConnectionsTotal
}

// RelayScans exposes the scan outcome counter.
func RelayScans() *prometheus.CounterVec {
	RegisterMetrics()
	return relayScansTotal
}

// DispatchUploads exposes the manifest upload counter.
func DispatchUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return dispatchUploads
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}
