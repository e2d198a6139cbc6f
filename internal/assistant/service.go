package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nwert/folio/internal/gate"
	"github.com/nwert/folio/internal/llm"
	"github.com/nwert/folio/internal/observability"
	"github.com/nwert/folio/internal/policy"
	"github.com/nwert/folio/internal/reliability"
)

const (
	// FallbackText stands in when the provider returns no usable text.
	FallbackText = "Sorry, I couldn't generate a response."
	// RateLimitText points rate-limited callers at the contact form.
	RateLimitText = "I've reached my daily chat limit. Please use the contact form to get in touch directly."

	retryBackoff = 200 * time.Millisecond
)

// Limiter is the rate-limit decision point the service depends on.
type Limiter interface {
	Check(key string) gate.Decision
}

// Service is the chat gateway: it validates, screens, throttles and grounds
// a single user message before handing it to the language model.
type Service struct {
	llm         llm.Generator
	limiter     Limiter
	profilePath string
	logger      *zap.Logger
	metrics     *observability.Metrics

	sleep func(time.Duration) // injectable for retry tests
}

func NewService(generator llm.Generator, limiter Limiter, profilePath string, logger *zap.Logger, metrics *observability.Metrics) (*Service, error) {
	if limiter == nil {
		return nil, errors.New("assistant: limiter must not be nil")
	}
	if profilePath == "" {
		return nil, errors.New("assistant: profile path must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		llm:         generator,
		limiter:     limiter,
		profilePath: profilePath,
		logger:      logger,
		metrics:     metrics,
		sleep:       time.Sleep,
	}, nil
}

// Answer runs one chat message through the gateway pipeline and returns the
// reply text. Failures carry an *Error whose code the transport maps to a
// status; refusals and fallbacks are ordinary replies, not errors.
func (s *Service) Answer(ctx context.Context, callerKey string, rawMessage json.RawMessage) (string, error) {
	message, result := gate.ValidateChat(rawMessage)
	if !result.IsValid {
		return "", newError(ErrorInvalidInput, result.Errors[0], nil)
	}

	if refusal, blocked := policy.ScreenInjection(message); blocked {
		if s.metrics != nil {
			s.metrics.InjectionBlocks.Inc()
		}
		s.logger.Info("chat message blocked by injection screen")
		return refusal, nil
	}

	decision := s.limiter.Check(callerKey)
	if !decision.Allowed {
		if s.metrics != nil {
			s.metrics.RateLimitDenials.WithLabelValues("chat").Inc()
		}
		return "", newError(ErrorRateLimited, "daily limit reached", nil)
	}

	if s.llm == nil {
		return "", newError(ErrorInternal, "llm not configured", nil)
	}

	profile, err := LoadProfile(s.profilePath)
	if err != nil {
		return "", newError(ErrorInternal, "profile load failed", err)
	}

	text, err := s.generate(ctx, BuildPrompt(profile, message))
	if errors.Is(err, llm.ErrNoText) {
		return FallbackText, nil
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.ProviderErrors.WithLabelValues("gemini", providerErrorCode(err)).Inc()
		}
		return "", newError(ErrorUpstream, "generation failed", err)
	}
	return text, nil
}

// generate calls the model once, with a single immediate retry for transient
// upstream failures.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := s.llm.Generate(ctx, prompt)
	if err != nil && reliability.IsRetryable(err) {
		s.logger.Warn("retrying generation after transient failure", zap.Error(err))
		s.sleep(reliability.Backoff(0, retryBackoff, time.Second))
		text, err = s.llm.Generate(ctx, prompt)
	}
	if s.metrics != nil {
		s.metrics.ObserveProviderCall("gemini", time.Since(start))
	}
	return text, err
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

func providerErrorCode(err error) string {
	var statusErr httpStatusCoder
	if errors.As(err, &statusErr) {
		return httpStatusLabel(statusErr.HTTPStatusCode())
	}
	return "transport"
}

func httpStatusLabel(code int) string {
	switch {
	case code == 429:
		return "rate_limited"
	case code >= 500:
		return "server_error"
	case code >= 400:
		return "client_error"
	default:
		return "unexpected"
	}
}
