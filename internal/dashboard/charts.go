package dashboard

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"creditcard-eda/internal/analysis"
	"creditcard-eda/internal/charts"
	"creditcard-eda/internal/logger"
	"creditcard-eda/internal/observability"
)

// Chart names served under /charts/{name}.{png|svg}.
const (
	chartClass  = "class"
	chartAmount = "amount"
	chartHourly = "hourly"
)

var errUnknownChart = errors.New("unknown chart")

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ext, _ := strings.Cut(r.PathValue("file"), ".")
	format, ok := charts.ParseFormat(ext)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	start := time.Now()
	err := s.drawChart(&buf, format, name, thresholdParam(r))
	if errors.Is(err, errUnknownChart) {
		http.NotFound(w, r)
		return
	}
	observability.RecordChartRender(name, string(format), time.Since(start).Seconds(), err)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("chart", name).Msg("Failed to render chart")
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// drawChart renders chart name into w.
func (s *Server) drawChart(w io.Writer, f charts.Format, name string, threshold float64) error {
	switch name {
	case chartClass:
		return charts.ClassBar(w, f, analysis.Distribution(s.table))
	case chartHourly:
		return charts.HourlyBar(w, f, analysis.HourlyCounts(s.table))
	case chartAmount:
		a := s.amount(threshold)
		return charts.AmountHistogram(w, f, a.Threshold, a.Bins, a.Density)
	default:
		return errUnknownChart
	}
}
