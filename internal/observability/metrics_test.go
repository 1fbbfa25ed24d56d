package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.DatasetRows.Set(3)
	m.ViewRendersTotal.WithLabelValues("overview", "html").Inc()
	m.ChartRenderErrors.WithLabelValues("amount").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.DatasetRows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ViewRendersTotal.WithLabelValues("overview", "html")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChartRenderErrors.WithLabelValues("amount")))
}

func TestRecordHelpers(t *testing.T) {
	RecordDatasetLoaded(284807, 31, 1.5)
	assert.Equal(t, 284807.0, testutil.ToFloat64(DefaultMetrics.DatasetRows))
	assert.Equal(t, 31.0, testutil.ToFloat64(DefaultMetrics.DatasetColumns))

	before := testutil.ToFloat64(DefaultMetrics.ChartRenderErrors.WithLabelValues("class"))
	RecordChartRender("class", "png", 0.01, nil)
	RecordChartRender("class", "png", 0.01, errors.New("boom"))
	after := testutil.ToFloat64(DefaultMetrics.ChartRenderErrors.WithLabelValues("class"))
	assert.Equal(t, before+1, after)

	WSConnected(1)
	WSConnected(-1)
	assert.Equal(t, 0.0, testutil.ToFloat64(DefaultMetrics.WSConnections))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "2xx", statusText(200))
	assert.Equal(t, "3xx", statusText(302))
	assert.Equal(t, "4xx", statusText(404))
	assert.Equal(t, "5xx", statusText(503))
}
