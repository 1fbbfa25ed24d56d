package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"creditcard-eda/internal/analysis"
	"creditcard-eda/internal/dashboard/middleware"
	"creditcard-eda/internal/logger"
	"creditcard-eda/internal/observability"
	"creditcard-eda/internal/view"
)

var templateFuncs = template.FuncMap{
	"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) },
	"amount": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
}

// menuItem is one sidebar entry.
type menuItem struct {
	Slug   string
	Title  string
	Active bool
}

// page is the data of every HTML page. Exactly one of the view fields is set.
type page struct {
	Title  string
	Menu   []menuItem
	Source string

	Overview *analysis.Overview
	Classes  []analysis.ClassCount
	Amount   *amountData
	Hours    []analysis.HourCount
}

// amountData is the amount view at one threshold.
type amountData struct {
	Control   analysis.AmountControl `json:"control"`
	Threshold float64                `json:"threshold"`
	Count     int                    `json:"count"`
	Bins      []analysis.Bin         `json:"bins"`
	Density   []analysis.Point       `json:"density"`
}

// classData is the class view as served by the JSON API.
type classData struct {
	Classes []analysis.ClassCount `json:"classes"`
}

// temporalData is the temporal view as served by the JSON API.
type temporalData struct {
	Hours []analysis.HourCount `json:"hours"`
}

// handleSelect redirects the sidebar form to the chosen view.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	k, ok := view.ParseKind(r.URL.Query().Get("view"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/view/"+k.Slug(), http.StatusFound)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	k, ok := view.ParseKind(r.PathValue("slug"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	var nav view.Navigator
	nav.Select(k)

	start := time.Now()
	p := s.render(nav.Current(), thresholdParam(r))

	var buf bytes.Buffer
	if err := s.pages[nav.Current()].Execute(&buf, p); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("view", k.Slug()).Msg("Failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	observability.RecordViewRender(k.Slug(), "html", time.Since(start).Seconds())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	k, ok := view.ParseKind(r.PathValue("slug"))
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf("unknown view %q", r.PathValue("slug")))
		return
	}

	start := time.Now()
	p := s.render(k, thresholdParam(r))

	var body any
	switch k {
	case view.Overview:
		body = p.Overview
	case view.ClassDistribution:
		body = classData{Classes: p.Classes}
	case view.AmountDistribution:
		body = p.Amount
	case view.TemporalDistribution:
		body = temporalData{Hours: p.Hours}
	default:
		panic(&view.InvalidSelectionError{Kind: k})
	}
	observability.RecordViewRender(k.Slug(), "json", time.Since(start).Seconds())
	middleware.WriteJSON(w, http.StatusOK, body)
}

// render computes the data of view k. threshold only affects the amount view.
func (s *Server) render(k view.Kind, threshold float64) page {
	p := page{
		Title:  k.Title(),
		Menu:   s.menu(k),
		Source: s.source,
	}

	switch k {
	case view.Overview:
		ov := analysis.Summarize(s.table, s.previewRows)
		p.Overview = &ov
	case view.ClassDistribution:
		p.Classes = analysis.Distribution(s.table)
	case view.AmountDistribution:
		a := s.amount(threshold)
		p.Amount = &a
	case view.TemporalDistribution:
		p.Hours = analysis.HourlyCounts(s.table)
	default:
		panic(&view.InvalidSelectionError{Kind: k})
	}
	return p
}

// amount filters the table at the clamped threshold and bins the result.
func (s *Server) amount(threshold float64) amountData {
	t := s.control.Clamp(threshold)
	observability.RecordAmountThreshold(t)

	v := analysis.FilteredView(s.table, t)
	bins := analysis.Histogram(v.Amounts, analysis.HistogramBins)

	var density []analysis.Point
	if len(bins) > 0 {
		density = analysis.Density(v.Amounts, bins[0].Upper-bins[0].Lower, analysis.DensityPoints)
	}

	return amountData{
		Control:   s.control,
		Threshold: t,
		Count:     v.Count,
		Bins:      bins,
		Density:   density,
	}
}

func (s *Server) menu(current view.Kind) []menuItem {
	kinds := view.Kinds()
	items := make([]menuItem, len(kinds))
	for i, k := range kinds {
		items[i] = menuItem{Slug: k.Slug(), Title: k.Title(), Active: k == current}
	}
	return items
}

// thresholdParam reads ?threshold=; a missing or malformed value is NaN,
// which the slider clamps to its default.
func thresholdParam(r *http.Request) float64 {
	raw := strings.TrimSpace(r.URL.Query().Get("threshold"))
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
