package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/snekpath/nav"
)

const (
	wsReadTimeout  = 2 * time.Minute
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// handleWS serves one agent per connection. Each text frame is a
// MoveRequest; each reply is a MoveResponse or an error object. The
// controller is rebuilt when the board size changes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	s.logger.Info("websocket connected", "remote", r.RemoteAddr)

	var ctrl *nav.Controller
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		_, frame, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.logger.Debug("websocket read failed", "err", err)
			}
			return
		}
		var req MoveRequest
		if err := json.Unmarshal(frame, &req); err != nil {
			if !s.wsReject(ctx, conn, fmt.Errorf("decode request: %w", err)) {
				return
			}
			continue
		}

		if ctrl == nil || ctrl.Config().Size != req.Size {
			ctrl, err = s.controller(req.Size, s.cfg.Policy)
			if err != nil {
				ctrl = nil
				if !s.wsReject(ctx, conn, err) {
					return
				}
				continue
			}
		}

		start := time.Now()
		d, err := ctrl.Decide(req.State())
		if err != nil {
			if !s.wsReject(ctx, conn, err) {
				return
			}
			continue
		}
		s.metrics.decided(ctx, d, time.Since(start), "ws")

		if !s.wsWrite(conn, NewMoveResponse(d)) {
			return
		}
	}
}

func (s *Server) wsReject(ctx context.Context, conn *websocket.Conn, err error) bool {
	s.metrics.reject(ctx, "ws")
	return s.wsWrite(conn, errorResponse{Error: err.Error()})
}

func (s *Server) wsWrite(conn *websocket.Conn, v any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(v); err != nil {
		s.logger.Debug("websocket write failed", "err", err)
		return false
	}
	return true
}
