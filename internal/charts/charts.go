// Package charts renders the dashboard figures with go-chart.
package charts

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"creditcard-eda/internal/analysis"
)

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to chart")

var (
	barColor     = drawing.ColorFromHex("4c72b0")
	densityColor = drawing.ColorFromHex("dd8452")
	background   = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
)

// ParseFormat maps a file extension ("png", "svg") to a Format.
func ParseFormat(ext string) (Format, bool) {
	switch Format(ext) {
	case PNG, SVG:
		return Format(ext), true
	default:
		return "", false
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// DataURI renders with draw and returns the image as a data: URI.
func DataURI(f Format, draw func(io.Writer, Format) error) (string, error) {
	var buf bytes.Buffer
	if err := draw(&buf, f); err != nil {
		return "", err
	}
	return "data:" + f.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ClassBar draws the transaction count of each class label.
func ClassBar(w io.Writer, f Format, counts []analysis.ClassCount) error {
	if len(counts) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(counts))
	peak := 0
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: strconv.Itoa(c.Class),
			Value: float64(c.Count),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		peak = max(peak, c.Count)
	}

	bc := chart.BarChart{
		Title:      "Class distribution (0 = normal, 1 = fraud)",
		Background: background,
		Width:      600,
		Height:     400,
		BarWidth:   120,
		BarSpacing: 60,
		XAxis:      chart.Style{},
		YAxis: chart.YAxis{
			Name:           "Number of transactions",
			Range:          countRange(float64(peak)),
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}
	return render(bc.Render, f, w, "class")
}

// HourlyBar draws the transaction count of each hour bucket.
func HourlyBar(w io.Writer, f Format, counts []analysis.HourCount) error {
	if len(counts) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(counts))
	peak := 0
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: strconv.Itoa(c.Hour),
			Value: float64(c.Count),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		peak = max(peak, c.Count)
	}

	bc := chart.BarChart{
		Title:      "Transactions per hour (0 to 47)",
		Background: background,
		Width:      1200,
		Height:     420,
		BarWidth:   16,
		BarSpacing: 6,
		XAxis:      chart.Style{FontSize: 7},
		YAxis: chart.YAxis{
			Name:           "Number of transactions",
			Range:          countRange(float64(peak)),
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}
	return render(bc.Render, f, w, "hourly")
}

// AmountHistogram draws the filled histogram of the retained amounts with the
// density curve on top. With no bins it draws an empty axis up to threshold.
func AmountHistogram(w io.Writer, f Format, threshold float64, bins []analysis.Bin, density []analysis.Point) error {
	title := fmt.Sprintf("Amount distribution (Amount ≤ %.1f)", threshold)

	var series []chart.Series
	xRange := &chart.ContinuousRange{Min: 0, Max: math.Max(threshold, 1)}
	peak := 0.0

	if len(bins) > 0 {
		xs := make([]float64, 0, 2*len(bins)+2)
		ys := make([]float64, 0, 2*len(bins)+2)
		xs, ys = append(xs, bins[0].Lower), append(ys, 0)
		for _, b := range bins {
			xs = append(xs, b.Lower, b.Upper)
			ys = append(ys, float64(b.Count), float64(b.Count))
			peak = math.Max(peak, float64(b.Count))
		}
		xs, ys = append(xs, bins[len(bins)-1].Upper), append(ys, 0)

		series = append(series, chart.ContinuousSeries{
			Name:    "Amount",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: barColor,
				StrokeWidth: 1,
				FillColor:   barColor.WithAlpha(110),
			},
		})
		xRange = &chart.ContinuousRange{Min: bins[0].Lower, Max: bins[len(bins)-1].Upper}
	} else {
		series = append(series, chart.ContinuousSeries{
			Name:    "Amount",
			XValues: []float64{xRange.Min, xRange.Max},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: barColor, StrokeWidth: 1},
		})
	}

	if len(density) > 0 {
		xs := make([]float64, len(density))
		ys := make([]float64, len(density))
		for i, p := range density {
			xs[i], ys[i] = p.X, p.Y
			peak = math.Max(peak, p.Y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Density",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: densityColor, StrokeWidth: 2},
		})
	}

	ch := chart.Chart{
		Title:      title,
		Background: background,
		Width:      1000,
		Height:     400,
		XAxis: chart.XAxis{
			Name:  "Amount",
			Range: xRange,
		},
		YAxis: chart.YAxis{
			Name:           "Number of transactions",
			Range:          countRange(peak),
			ValueFormatter: countFormatter,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(ch.Render, f, w, "amount")
}

// countRange is a y range from zero with headroom above peak.
func countRange(peak float64) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: 0, Max: math.Max(peak*1.05, 1)}
}

func countFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(math.Round(f), 'f', 0, 64)
	}
	return ""
}

func render(draw func(chart.RendererProvider, io.Writer) error, f Format, w io.Writer, name string) error {
	if err := draw(f.provider(), w); err != nil {
		return fmt.Errorf("render %s chart: %w", name, err)
	}
	return nil
}
