// Package dashboard serves the exploratory views of the transaction table
// over HTTP: HTML pages, chart images, JSON view data and a websocket for the
// amount slider.
package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"creditcard-eda/internal/analysis"
	"creditcard-eda/internal/dashboard/middleware"
	"creditcard-eda/internal/dataset"
	"creditcard-eda/internal/observability"
	"creditcard-eda/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures a Server.
type Options struct {
	Table        *dataset.Table
	Source       string
	LoadDuration time.Duration
	PreviewRows  int
	Logger       zerolog.Logger
}

// Server renders the dashboard from one immutable table.
type Server struct {
	table        *dataset.Table
	source       string
	loadDuration time.Duration
	previewRows  int
	control      analysis.AmountControl
	started      time.Time

	pages    map[view.Kind]*template.Template
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewServer parses the page templates and prepares the slider bounds.
func NewServer(opts Options) (*Server, error) {
	if opts.Table == nil {
		return nil, fmt.Errorf("dashboard: nil table")
	}

	pages := make(map[view.Kind]*template.Template, len(view.Kinds()))
	for _, k := range view.Kinds() {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+k.Slug()+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", k.Slug(), err)
		}
		pages[k] = tmpl
	}

	return &Server{
		table:        opts.Table,
		source:       opts.Source,
		loadDuration: opts.LoadDuration,
		previewRows:  opts.PreviewRows,
		control:      analysis.AmountControlFor(opts.Table),
		started:      time.Now(),
		pages:        pages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
		logger: opts.Logger.With().Str("component", "dashboard").Logger(),
	}, nil
}

// Handler returns the dashboard routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/view/"+view.Overview.Slug(), http.StatusFound)
	})
	mux.HandleFunc("GET /view", s.handleSelect)
	mux.HandleFunc("GET /view/{slug}", s.handlePage)
	mux.HandleFunc("GET /api/view/{slug}", s.handleAPI)
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /ws/amount", s.handleAmountWS)
	s.registerOps(mux)

	return middleware.Chain(mux,
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
		middleware.RequestID(s.logger),
		middleware.Metrics,
	)
}

// OpsHandler serves health, status and Prometheus metrics on their own.
func (s *Server) OpsHandler() http.Handler {
	mux := http.NewServeMux()
	s.registerOps(mux)
	return mux
}

func (s *Server) registerOps(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status       string    `json:"status"`
	Source       string    `json:"source"`
	Rows         int       `json:"rows"`
	Columns      int       `json:"columns"`
	LoadDuration string    `json:"load_duration"`
	Started      time.Time `json:"started"`
	Uptime       string    `json:"uptime"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:       "running",
		Source:       s.source,
		Rows:         s.table.Len(),
		Columns:      len(s.table.Columns()),
		LoadDuration: s.loadDuration.String(),
		Started:      s.started,
		Uptime:       time.Since(s.started).Truncate(time.Second).String(),
	})
}
