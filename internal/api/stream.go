package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"nhooyr.io/websocket"
)

// maxStreamDelay caps the per-turn pause a client may request.
const maxStreamDelay = 5 * time.Second

// handleStream upgrades to a websocket and sends every remaining turn of
// the simulation as a StepResponse text message, then closes normally.
// The optional delay_ms query parameter paces the turns.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var delay time.Duration
	if ms, err := strconv.Atoi(r.URL.Query().Get("delay_ms")); err == nil && ms > 0 {
		delay = min(time.Duration(ms)*time.Millisecond, maxStreamDelay)
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow any origin for local tooling
	})
	if err != nil {
		s.logger.Warn("websocket accept", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	// The client never sends; CloseRead handles control frames and cancels
	// ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	if err := s.streamTurns(ctx, conn, h, delay); err != nil {
		s.logger.Debug("stream ended", "id", h.ID, "err", err)
		return
	}
	conn.Close(websocket.StatusNormalClosure, "simulation terminated")
}

func (s *Server) streamTurns(ctx context.Context, conn *websocket.Conn, h *Handle, delay time.Duration) error {
	for {
		resp, finished := h.Step()
		if finished {
			s.finish(h)
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			return err
		}
		if resp.Turn.Terminal {
			return nil
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}
