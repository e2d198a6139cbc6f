package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nwert/folio/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := NewClient("test-key", "gemini-2.5-flash", 5*time.Second, WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("NewClient error = %v", err)
	}
	return c
}

func TestGenerateReturnsFirstCandidateText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "Nicole builds web things."}}}},
			},
		})
	})

	text, err := c.Generate(context.Background(), "Who is Nicole?")
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}
	if text != "Nicole builds web things." {
		t.Fatalf("Generate text = %q", text)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Fatalf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("request contents = %+v", gotBody.Contents)
	}
	if gotBody.Contents[0].Parts[0].Text != "Who is Nicole?" {
		t.Fatalf("prompt sent = %q", gotBody.Contents[0].Parts[0].Text)
	}
}

func TestGenerateNoCandidatesIsErrNoText(t *testing.T) {
	cases := []string{
		`{}`,
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`,
	}
	for _, body := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.Generate(context.Background(), "hi there")
		if !errors.Is(err, llm.ErrNoText) {
			t.Fatalf("Generate(%s) error = %v, want llm.ErrNoText", body, err)
		}
	}
}

func TestGenerateUpstreamStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Generate(context.Background(), "hi there")
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Generate error = %v, want HTTPStatusError", err)
	}
	if statusErr.HTTPStatusCode() != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", statusErr.HTTPStatusCode())
	}
	if !strings.Contains(statusErr.Body, "quota exceeded") {
		t.Fatalf("status body = %q", statusErr.Body)
	}
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient("", "gemini-2.5-flash", time.Second); err == nil {
		t.Fatalf("NewClient with empty key succeeded")
	}
	if _, err := NewClient("key", "  ", time.Second); err == nil {
		t.Fatalf("NewClient with empty model succeeded")
	}
}
