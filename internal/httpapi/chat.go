package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nwert/folio/internal/assistant"
	"github.com/nwert/folio/internal/gate"
)

const chatServerErrMsg = "Something went wrong. Please try again later."

type chatRequest struct {
	Message json.RawMessage `json:"message"`
}

// chatResponse is the widget-facing reply envelope. Error and RateLimited
// are omitted on plain answers so the happy-path body stays {"text": ...}.
type chatResponse struct {
	Text        string `json:"text"`
	Error       bool   `json:"error,omitempty"`
	RateLimited bool   `json:"rateLimited,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, chatResponse{Text: contactBadRequestMsg, Error: true})
		return
	}

	status, resp := s.answerChat(r.Context(), gate.ClientIP(r), req.Message)
	respondJSON(w, status, resp)
}

// answerChat runs one message through the chat gateway and maps service
// error codes onto the transport contract. Shared by the POST handler and
// the websocket channel.
func (s *Server) answerChat(ctx context.Context, callerKey string, raw json.RawMessage) (int, chatResponse) {
	if s.assistant == nil {
		return http.StatusInternalServerError, chatResponse{Text: chatServerErrMsg, Error: true}
	}

	text, err := s.assistant.Answer(ctx, callerKey, raw)
	if err == nil {
		return http.StatusOK, chatResponse{Text: text}
	}

	var svcErr *assistant.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Code {
		case assistant.ErrorInvalidInput:
			return http.StatusBadRequest, chatResponse{Text: svcErr.Reason, Error: true}
		case assistant.ErrorRateLimited:
			return http.StatusTooManyRequests, chatResponse{Text: assistant.RateLimitText, RateLimited: true}
		}
	}

	s.logger.Error("chat generation failed", zap.Error(err))
	return http.StatusInternalServerError, chatResponse{Text: chatServerErrMsg, Error: true}
}
