package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"creditcard-eda/internal/dataset"
)

// Amount slider settings.
const (
	AmountMin     = 10.0
	AmountDefault = 500.0
	AmountStep    = 10.0

	// HistogramBins is the number of bins of the amount chart.
	HistogramBins = 100

	// DensityPoints is the number of points of the density curve.
	DensityPoints = 200
)

// AmountControl describes the threshold slider.
type AmountControl struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// AmountControlFor derives the slider bounds from the table. Max is the
// largest amount, raised to Min when every amount is below Min or missing.
func AmountControlFor(t *dataset.Table) AmountControl {
	c := AmountControl{
		Min:  AmountMin,
		Max:  t.MaxAmount(),
		Step: AmountStep,
	}
	if math.IsNaN(c.Max) || c.Max < c.Min {
		c.Max = c.Min
	}
	c.Default = c.bound(AmountDefault)
	return c
}

// Clamp returns v limited to [Min, Max]; NaN selects Default.
func (c AmountControl) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return c.Default
	}
	return c.bound(v)
}

func (c AmountControl) bound(v float64) float64 {
	return math.Max(c.Min, math.Min(c.Max, v))
}

// AmountView holds the rows whose Amount is at most Threshold.
type AmountView struct {
	Threshold float64   `json:"threshold"`
	Count     int       `json:"count"`
	Indices   []int     `json:"-"`
	Amounts   []float64 `json:"-"`
}

// FilteredView selects the rows with Amount <= threshold, in table order.
// Rows with a missing amount are never selected.
func FilteredView(t *dataset.Table, threshold float64) AmountView {
	v := AmountView{Threshold: threshold}
	for r := 0; r < t.Len(); r++ {
		a := t.Amount(r)
		if a <= threshold {
			v.Indices = append(v.Indices, r)
			v.Amounts = append(v.Amounts, a)
		}
	}
	v.Count = len(v.Indices)
	return v
}

// Bin is one histogram bar over [Lower, Upper).
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits [min, max] of values into n equal-width bins. The last bin
// is closed on the right. A single distinct value v is spread over
// [v-0.5, v+0.5]. Empty input or n < 1 yields no bins.
func Histogram(values []float64, n int) []Bin {
	sorted := sortedCopy(values)
	if len(sorted) == 0 || n < 1 {
		return nil
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// stat.Histogram bins are half-open; widen the last edge to keep hi.
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	bins[n-1].Upper = hi
	return bins
}

// Point is a sample of a curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Density estimates the distribution of values with a Gaussian kernel using
// Scott's bandwidth, sampled at n points over the data range. The curve is
// scaled by len(values)*binWidth so it overlays a count histogram of that bin
// width. It returns nil for fewer than two values or zero variance.
func Density(values []float64, binWidth float64, n int) []Point {
	sorted := sortedCopy(values)
	if len(sorted) < 2 || n < 2 {
		return nil
	}

	_, sd := stat.MeanStdDev(sorted, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}

	count := float64(len(sorted))
	bw := math.Pow(count, -0.2) * sd
	norm := binWidth / (bw * math.Sqrt(2*math.Pi))
	// kernel contributions beyond this many bandwidths are negligible
	const reach = 8.0

	xs := floats.Span(make([]float64, n), sorted[0], sorted[len(sorted)-1])
	points := make([]Point, n)
	for i, x := range xs {
		from := sort.SearchFloat64s(sorted, x-reach*bw)
		sum := 0.0
		for _, v := range sorted[from:] {
			if v > x+reach*bw {
				break
			}
			z := (x - v) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		points[i] = Point{X: x, Y: sum * norm}
	}
	return points
}

// sortedCopy returns the non-missing values in ascending order.
func sortedCopy(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
