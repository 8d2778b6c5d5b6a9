package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	uploadFilesTotal     *prometheus.CounterVec
	uploadRejectedTotal  *prometheus.CounterVec
	uploadLatencySeconds prometheus.Histogram
	analysesInFlight     prometheus.Gauge
	analysesTotal        *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asap_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "asap_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asap_http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		uploadFilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asap_upload_files_total",
			Help: "Project files encoded for evaluation, by MIME type.",
		}, []string{"mime"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asap_upload_rejected_total",
			Help: "Project files rejected during encoding, by reason.",
		}, []string{"reason"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "asap_upload_encode_seconds",
			Help:    "Time spent encoding uploaded project files.",
			Buckets: prometheus.DefBuckets,
		})

		analysesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "asap_analyses_in_flight",
			Help: "Number of analyses currently running.",
		})

		analysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asap_analyses_total",
			Help: "Analyses by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpRequestsTotal, httpLatencySeconds, httpErrorsTotal,
			uploadFilesTotal, uploadRejectedTotal, uploadLatencySeconds,
			analysesInFlight, analysesTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// UploadFiles exposes the counter of encoded files.
func UploadFiles() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadFilesTotal
}

// UploadRejected exposes the counter of rejected files.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// UploadLatency exposes the upload encoding histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}

// AnalysesInFlight exposes the running analyses gauge.
func AnalysesInFlight() prometheus.Gauge {
	RegisterMetrics()
	return analysesInFlight
}

// Analyses exposes the analysis outcome counter.
func Analyses() *prometheus.CounterVec {
	RegisterMetrics()
	return analysesTotal
}
