// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	// Dataset metrics
	DatasetRows         prometheus.Gauge
	DatasetColumns      prometheus.Gauge
	DatasetLoadDuration prometheus.Gauge
	DatasetLoadErrors   *prometheus.CounterVec

	// View metrics
	ViewRendersTotal *prometheus.CounterVec
	ViewDuration     *prometheus.HistogramVec
	AmountThreshold  prometheus.Histogram

	// Chart metrics
	ChartRenderDuration *prometheus.HistogramVec
	ChartRenderErrors   *prometheus.CounterVec

	// Websocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil registerer uses the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "creditcard_eda"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		DatasetRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "rows",
			Help:      "Number of transactions in the loaded table",
		}),
		DatasetColumns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "columns",
			Help:      "Number of source columns in the loaded table",
		}),
		DatasetLoadDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "load_duration_seconds",
			Help:      "Time spent reading and validating the dataset",
		}),
		DatasetLoadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "load_errors_total",
			Help:      "Total number of failed dataset loads by operation",
		}, []string{"op"}),

		ViewRendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "renders_total",
			Help:      "Total number of view renders by view and format",
		}, []string{"view", "format"}),
		ViewDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "duration_seconds",
			Help:      "View computation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		AmountThreshold: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "amount_threshold",
			Help:      "Amount filter thresholds requested by users",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		}),

		ChartRenderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "render_duration_seconds",
			Help:      "Chart rendering duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"chart", "format"}),
		ChartRenderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "render_errors_total",
			Help:      "Total number of chart rendering errors",
		}, []string{"chart"}),

		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "connections",
			Help:      "Open websocket connections for the amount slider",
		}),
		WSMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "messages_total",
			Help:      "Websocket messages by direction",
		}, []string{"direction"}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordDatasetLoaded records the shape of the loaded table and the load time.
func RecordDatasetLoaded(rows, columns int, seconds float64) {
	DefaultMetrics.DatasetRows.Set(float64(rows))
	DefaultMetrics.DatasetColumns.Set(float64(columns))
	DefaultMetrics.DatasetLoadDuration.Set(seconds)
}

// RecordDatasetLoadError records a failed load.
func RecordDatasetLoadError(op string) {
	DefaultMetrics.DatasetLoadErrors.WithLabelValues(op).Inc()
}

// RecordViewRender records one computed view.
func RecordViewRender(view, format string, seconds float64) {
	DefaultMetrics.ViewRendersTotal.WithLabelValues(view, format).Inc()
	DefaultMetrics.ViewDuration.WithLabelValues(view).Observe(seconds)
}

// RecordAmountThreshold records a requested amount filter threshold.
func RecordAmountThreshold(threshold float64) {
	DefaultMetrics.AmountThreshold.Observe(threshold)
}

// RecordChartRender records chart rendering latency and errors.
func RecordChartRender(chart, format string, seconds float64, err error) {
	DefaultMetrics.ChartRenderDuration.WithLabelValues(chart, format).Observe(seconds)
	if err != nil {
		DefaultMetrics.ChartRenderErrors.WithLabelValues(chart).Inc()
	}
}

// WSConnected adjusts the open websocket gauge by delta (+1 / -1).
func WSConnected(delta int) {
	DefaultMetrics.WSConnections.Add(float64(delta))
}

// RecordWSMessage counts a websocket message ("in" or "out").
func RecordWSMessage(direction string) {
	DefaultMetrics.WSMessages.WithLabelValues(direction).Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(route string, code int) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(route, statusText(code)).Inc()
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
