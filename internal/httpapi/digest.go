package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nwert/folio/internal/mail"
	"github.com/nwert/folio/internal/reliability"
)

const digestRetryBackoff = 200 * time.Millisecond

type digestResponse struct {
	Message   string `json:"message"`
	Count     int    `json:"count"`
	MessageID string `json:"messageId,omitempty"`
}

// handleDailySummary emails today's contact submissions to the admin. The
// endpoint is hit by an external scheduler and guarded by CRON_SECRET; an
// unconfigured secret keeps it closed.
func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	if !bearerMatches(r, s.cfg.CronSecret) {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	submissions, err := s.store.SubmissionsBetween(r.Context(), from, to)
	if err != nil {
		s.logger.Error("digest submission fetch failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if len(submissions) == 0 {
		respondJSON(w, http.StatusOK, digestResponse{
			Message: "No submissions to process",
			Count:   0,
		})
		return
	}

	if s.mailer == nil || s.cfg.AdminEmail == "" {
		s.logger.Error("digest requested but email delivery is not configured")
		respondError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	digest := mail.RenderDigest(submissions)
	msg := mail.Message{
		From:    "Portfolio Contact <noreply@" + s.cfg.MailDomain + ">",
		To:      s.cfg.AdminEmail,
		Subject: digest.Subject,
		HTML:    digest.HTML,
		Text:    digest.Text,
	}

	messageID, err := s.mailer.Send(r.Context(), msg)
	if err != nil && reliability.IsRetryable(err) {
		s.logger.Warn("retrying digest send after transient failure", zap.Error(err))
		s.sleep(reliability.Backoff(0, digestRetryBackoff, time.Second))
		messageID, err = s.mailer.Send(r.Context(), msg)
	}
	if err != nil {
		s.logger.Error("digest send failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	s.logger.Info("daily digest sent",
		zap.Int("count", len(submissions)),
		zap.String("message_id", messageID))
	respondJSON(w, http.StatusOK, digestResponse{
		Message:   "Daily summary sent successfully",
		Count:     len(submissions),
		MessageID: messageID,
	})
}
