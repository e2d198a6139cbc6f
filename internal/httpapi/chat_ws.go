package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nwert/folio/internal/gate"
)

const (
	wsReadLimit    = 64 << 10
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// handleChatWS serves the site widget's persistent chat channel. Each text
// frame {"message": ...} runs through the same gateway pipeline as
// POST /api/chat; the reply frame carries the same envelope. The server
// keeps no transcript, so every frame stands alone.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	callerKey := gate.ClientIP(r)

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		if msgType != websocket.TextMessage {
			continue
		}

		var req chatRequest
		resp := chatResponse{Text: contactBadRequestMsg, Error: true}
		if err := json.Unmarshal(data, &req); err == nil {
			_, resp = s.answerChat(r.Context(), callerKey, req.Message)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Debug("chat websocket write failed", zap.Error(err))
			return
		}
	}
}
