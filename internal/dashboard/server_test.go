package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditcard-eda/internal/analysis"
	"creditcard-eda/internal/dataset"
	"creditcard-eda/internal/view"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	table, err := dataset.NewTable(dataset.GenerateFixtures(2000, 3))
	require.NoError(t, err)

	s, err := NewServer(Options{
		Table:       table,
		Source:      "fixtures",
		PreviewRows: 5,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewServer_NilTable(t *testing.T) {
	_, err := NewServer(Options{Logger: zerolog.Nop()})
	assert.Error(t, err)
}

func TestRoot_RedirectsToOverview(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/view/overview", rec.Header().Get("Location"))
}

func TestPages(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		target string
		want   []string
	}{
		{"/view/overview", []string{"Number of rows:</strong> 2000", "Duplicated rows", "float64", "int64"}},
		{"/view/class", []string{"Frequency table", "/charts/class.svg"}},
		{"/view/amount", []string{`id="threshold"`, "/charts/amount.svg?threshold=500", "/ws/amount"}},
		{"/view/amount?threshold=100", []string{"/charts/amount.svg?threshold=100"}},
		{"/view/temporal", []string{"/charts/hourly.svg", "Counts per hour"}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			for _, w := range tt.want {
				assert.Contains(t, rec.Body.String(), w)
			}
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestPages_MenuMarksCurrentView(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/view/temporal")

	assert.Contains(t, rec.Body.String(), `<option value="temporal" selected>`)
	assert.Contains(t, rec.Body.String(), `<option value="overview">`)
}

func TestUnknownView(t *testing.T) {
	h := newTestServer(t).Handler()

	assert.Equal(t, http.StatusNotFound, get(t, h, "/view/fraud").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/view/fraud").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/view?view=fraud").Code)
}

func TestSelect_Redirects(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/view?view=amount")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/view/amount", rec.Header().Get("Location"))
}

func TestAPI_Class(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/api/view/class")
	require.Equal(t, http.StatusOK, rec.Code)

	var body classData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	total, pct := 0, 0.0
	for _, c := range body.Classes {
		total += c.Count
		pct += c.Percent
	}
	assert.Equal(t, 2000, total)
	assert.InDelta(t, 100.0, pct, 0.01)
}

func TestAPI_Temporal(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/api/view/temporal")
	require.Equal(t, http.StatusOK, rec.Code)

	var body temporalData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	total := 0
	for _, h := range body.Hours {
		total += h.Count
	}
	assert.Equal(t, 2000, total)
}

func TestAPI_Overview(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/api/view/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var body analysis.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2000, body.Rows)
	assert.Equal(t, 31, body.Columns)
	assert.Equal(t, 3, body.Duplicates)
	assert.Len(t, body.Preview.Rows, 5)
}

func TestAPI_AmountThreshold(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		query string
		want  float64
	}{
		{"", analysis.AmountDefault},
		{"?threshold=abc", analysis.AmountDefault},
		{"?threshold=120", 120},
		{"?threshold=1", analysis.AmountMin},
		{"?threshold=1e12", s.control.Max},
		{"?threshold=Inf", s.control.Max},
		{"?threshold=-Inf", analysis.AmountMin},
		{"?threshold=NaN", analysis.AmountDefault},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, h, "/api/view/amount"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var body amountData
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Threshold)
			assert.Equal(t, analysis.FilteredView(s.table, tt.want).Count, body.Count)
			assert.Equal(t, s.control, body.Control)
		})
	}
}

func TestCharts(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, target := range []string{"/charts/class.png", "/charts/hourly.png", "/charts/amount.png?threshold=50", "/charts/amount.png?threshold=Inf"} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, h, target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
		})
	}

	rec := get(t, h, "/charts/class.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestCharts_Unknown(t *testing.T) {
	h := newTestServer(t).Handler()

	assert.Equal(t, http.StatusNotFound, get(t, h, "/charts/pie.png").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/charts/class.gif").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/charts/class").Code)
}

func TestOps(t *testing.T) {
	s := newTestServer(t)

	for _, h := range []http.Handler{s.Handler(), s.OpsHandler()} {
		rec := get(t, h, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())

		rec = get(t, h, "/status")
		require.Equal(t, http.StatusOK, rec.Code)
		var status StatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "running", status.Status)
		assert.Equal(t, 2000, status.Rows)
		assert.Equal(t, 31, status.Columns)
		assert.Equal(t, "fixtures", status.Source)

		rec = get(t, h, "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "creditcard_eda_dataset_rows")
	}
}

func TestRender_InvalidKindPanics(t *testing.T) {
	s := newTestServer(t)

	defer func() {
		r := recover()
		_, ok := r.(*view.InvalidSelectionError)
		assert.True(t, ok, "expected *view.InvalidSelectionError, got %v", r)
	}()
	s.render(view.Kind(42), 0)
}

func TestAmountWebSocket(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/amount"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	for _, threshold := range []float64{100, 20, 1e9} {
		require.NoError(t, conn.WriteJSON(map[string]float64{"threshold": threshold}))

		var reply amountReply
		require.NoError(t, conn.ReadJSON(&reply))

		want := s.control.Clamp(threshold)
		assert.Empty(t, reply.Error)
		assert.Equal(t, want, reply.Threshold)
		assert.Equal(t, analysis.FilteredView(s.table, want).Count, reply.Count)
		assert.True(t, strings.HasPrefix(reply.Chart, "data:image/svg+xml;base64,"))
	}
}

func TestAmountWebSocket_InvalidMessage(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/amount"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var reply amountReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.NotEmpty(t, reply.Error)

	// the connection stays usable; a missing threshold selects the default
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{}`)))
	reply = amountReply{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, s.control.Default, reply.Threshold)
}

func TestAmountWebSocket_RequiresUpgrade(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/ws/amount")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
