package charts

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditcard-eda/internal/analysis"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("png")
	require.True(t, ok)
	assert.Equal(t, PNG, f)
	assert.Equal(t, "image/png", f.ContentType())

	f, ok = ParseFormat("svg")
	require.True(t, ok)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, ok = ParseFormat("jpg")
	assert.False(t, ok)
}

func TestClassBar(t *testing.T) {
	counts := []analysis.ClassCount{
		{Class: 0, Count: 284315, Percent: 99.8273},
		{Class: 1, Count: 492, Percent: 0.1727},
	}

	var png bytes.Buffer
	require.NoError(t, ClassBar(&png, PNG, counts))
	assert.True(t, bytes.HasPrefix(png.Bytes(), pngMagic))

	var svg bytes.Buffer
	require.NoError(t, ClassBar(&svg, SVG, counts))
	assert.Contains(t, svg.String(), "<svg")
	assert.Contains(t, svg.String(), "Class distribution")
}

func TestClassBar_SingleClass(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ClassBar(&buf, SVG, []analysis.ClassCount{{Class: 0, Count: 3, Percent: 100}}))
}

func TestHourlyBar(t *testing.T) {
	counts := make([]analysis.HourCount, 48)
	for h := range counts {
		counts[h] = analysis.HourCount{Hour: h, Count: 1000 + 50*h}
	}

	var buf bytes.Buffer
	require.NoError(t, HourlyBar(&buf, PNG, counts))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestAmountHistogram(t *testing.T) {
	values := []float64{1, 2, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377}
	bins := analysis.Histogram(values, analysis.HistogramBins)
	density := analysis.Density(values, bins[0].Upper-bins[0].Lower, analysis.DensityPoints)

	var buf bytes.Buffer
	require.NoError(t, AmountHistogram(&buf, SVG, 500, bins, density))
	assert.Contains(t, buf.String(), "Amount distribution (Amount ≤ 500.0)")
}

func TestAmountHistogram_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AmountHistogram(&buf, PNG, 10, nil, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestEmptyBarCharts(t *testing.T) {
	assert.ErrorIs(t, ClassBar(io.Discard, PNG, nil), ErrNoData)
	assert.ErrorIs(t, HourlyBar(io.Discard, PNG, nil), ErrNoData)
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI(SVG, func(w io.Writer, f Format) error {
		return ClassBar(w, f, []analysis.ClassCount{{Class: 0, Count: 1, Percent: 100}})
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/svg+xml;base64,"))
}
