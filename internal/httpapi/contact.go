package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nwert/folio/internal/gate"
	"github.com/nwert/folio/internal/store"
)

const (
	contactSuccessMsg    = "Thanks for reaching out! I'll get back to you soon."
	contactRateLimitMsg  = "Too many requests. Please try again later."
	contactBadRequestMsg = "Invalid request format"
	contactValidationMsg = "Please check your input and try again."
	contactServerErrMsg  = "Something went wrong. Please try again later."
)

type contactSuccess struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleContact runs one submission through the gating pipeline: rate limit,
// parse, honeypot, schema validation, sanitize, persist. Honeypot hits get
// the same response as a validation failure so bots cannot tell them apart.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	callerKey := gate.ClientIP(r)

	decision := s.contactLimiter.Check(callerKey)
	if !decision.Allowed {
		if s.metrics != nil {
			s.metrics.RateLimitDenials.WithLabelValues("contact").Inc()
		}
		w.Header().Set("X-RateLimit-Remaining", "0")
		if resetAt := s.contactLimiter.ResetAt(callerKey); !resetAt.IsZero() {
			w.Header().Set("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))
		}
		respondError(w, http.StatusTooManyRequests, contactRateLimitMsg)
		return
	}

	var form gate.ContactForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, contactBadRequestMsg)
		return
	}

	if gate.IsBot(form.Company) {
		if s.metrics != nil {
			s.metrics.HoneypotHits.Inc()
		}
		s.logger.Info("contact submission rejected by honeypot")
		respondError(w, http.StatusBadRequest, contactValidationMsg)
		return
	}

	if result := gate.ValidateContact(form); !result.IsValid {
		respondError(w, http.StatusBadRequest, contactValidationMsg)
		return
	}

	sub := store.Submission{
		ID:        uuid.NewString(),
		Name:      gate.Sanitize(form.Name),
		Email:     gate.Sanitize(form.Email),
		Message:   gate.Sanitize(form.Message),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertSubmission(r.Context(), sub); err != nil {
		s.logger.Error("contact submission insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, contactServerErrMsg)
		return
	}

	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	respondJSON(w, http.StatusOK, contactSuccess{
		Success: true,
		Message: contactSuccessMsg,
	})
}
