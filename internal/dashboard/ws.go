package dashboard

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"creditcard-eda/internal/charts"
	"creditcard-eda/internal/logger"
	"creditcard-eda/internal/observability"
)

const (
	wsReadLimit    = 4 * 1024
	wsIdleTimeout  = 5 * time.Minute
	wsWriteTimeout = 10 * time.Second
)

// amountRequest is a slider message from the browser.
type amountRequest struct {
	Threshold *float64 `json:"threshold"`
}

// amountReply is the redrawn amount view for one slider message.
type amountReply struct {
	Threshold float64 `json:"threshold"`
	Count     int     `json:"count"`
	Chart     string  `json:"chart,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// handleAmountWS answers every slider message with the filtered count and
// an SVG chart, in the order the messages arrive.
func (s *Server) handleAmountWS(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	observability.WSConnected(1)
	defer observability.WSConnected(-1)

	conn.SetReadLimit(wsReadLimit)

	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("WebSocket closed")
			}
			return
		}
		observability.RecordWSMessage("in")

		reply := s.amountReply(message)
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Debug().Err(err).Msg("WebSocket write failed")
			return
		}
		observability.RecordWSMessage("out")
	}
}

func (s *Server) amountReply(message []byte) amountReply {
	var req amountRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return amountReply{Error: "invalid message: expected {\"threshold\": number}"}
	}

	threshold := math.NaN()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	a := s.amount(threshold)

	reply := amountReply{Threshold: a.Threshold, Count: a.Count}

	start := time.Now()
	uri, err := charts.DataURI(charts.SVG, func(w io.Writer, f charts.Format) error {
		return charts.AmountHistogram(w, f, a.Threshold, a.Bins, a.Density)
	})
	observability.RecordChartRender(chartAmount, string(charts.SVG), time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Error().Err(err).Float64("threshold", a.Threshold).Msg("Failed to render amount chart")
		reply.Error = "failed to render chart"
		return reply
	}
	reply.Chart = uri
	return reply
}
