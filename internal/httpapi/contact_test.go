package httpapi

import (
	"net/http"
	"testing"
)

func validContactBody() map[string]string {
	return map[string]string{
		"name":    "Jo",
		"email":   "jo@x.com",
		"message": "Hello there, this is a test message.",
		"company": "",
	}
}

func TestContactHappyPath(t *testing.T) {
	f := newTestServer(t, nil)
	router := f.server.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/contact", "1.2.3.4", validContactBody(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.Message == "" {
		t.Fatalf("response = %+v, want success with a message", resp)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Fatalf("X-RateLimit-Remaining = %q, want 4", got)
	}
	if f.store.SubmissionCount() != 1 {
		t.Fatalf("submissions stored = %d, want 1", f.store.SubmissionCount())
	}
}

func TestContactHoneypotRejectsLikeValidation(t *testing.T) {
	f := newTestServer(t, nil)
	router := f.server.Router()

	body := validContactBody()
	body["company"] = "AcmeCo"
	rec := doJSON(t, router, http.MethodPost, "/api/contact", "1.2.3.4", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	invalid := validContactBody()
	invalid["message"] = "short"
	recInvalid := doJSON(t, router, http.MethodPost, "/api/contact", "1.2.3.5", invalid, nil)
	if recInvalid.Code != http.StatusBadRequest {
		t.Fatalf("validation status = %d, want 400", recInvalid.Code)
	}

	// A bot must not be able to tell the honeypot apart from a plain
	// validation failure.
	if rec.Body.String() != recInvalid.Body.String() {
		t.Fatalf("honeypot body %q differs from validation body %q", rec.Body.String(), recInvalid.Body.String())
	}
	if f.store.SubmissionCount() != 0 {
		t.Fatalf("submissions stored = %d, want 0", f.store.SubmissionCount())
	}
}

func TestContactMalformedJSON(t *testing.T) {
	f := newTestServer(t, nil)
	router := f.server.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/contact", "1.2.3.4", "{not json", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &resp)
	if resp.Error != "Invalid request format" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestContactRateLimit(t *testing.T) {
	f := newTestServer(t, nil)
	router := f.server.Router()

	for i := 0; i < 5; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/contact", "9.9.9.9", validContactBody(), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodPost, "/api/contact", "9.9.9.9", validContactBody(), nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("6th request status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("X-RateLimit-Remaining = %q, want 0", got)
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatalf("X-RateLimit-Reset header missing")
	}

	// The limit is keyed by caller; another address is unaffected.
	other := doJSON(t, router, http.MethodPost, "/api/contact", "8.8.8.8", validContactBody(), nil)
	if other.Code != http.StatusOK {
		t.Fatalf("other caller status = %d, want 200", other.Code)
	}
}

func TestContactRateLimitBeatsInvalidPayload(t *testing.T) {
	f := newTestServer(t, nil)
	router := f.server.Router()

	for i := 0; i < 5; i++ {
		doJSON(t, router, http.MethodPost, "/api/contact", "9.9.9.9", validContactBody(), nil)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/contact", "9.9.9.9", "{not json", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 regardless of payload", rec.Code)
	}
}

func TestContactStoreFailure(t *testing.T) {
	f := newTestServer(t, func(f *serverFixture) {
		f.wrap = failingStore{Store: f.store}
	})
	router := f.server.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/contact", "1.2.3.4", validContactBody(), nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &resp)
	if resp.Error != "Something went wrong. Please try again later." {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestContactSanitizesBeforeStoring(t *testing.T) {
	f := newTestServer(t, nil)
	router := f.server.Router()

	body := validContactBody()
	body["message"] = "Hello <script>alert('x')</script> this is a longer test message."
	rec := doJSON(t, router, http.MethodPost, "/api/contact", "1.2.3.4", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	subs, err := f.store.SubmissionsBetween(t.Context(), timeZero(), timeMax())
	if err != nil {
		t.Fatalf("SubmissionsBetween error = %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("submissions = %d, want 1", len(subs))
	}
	want := "Hello alert('x') this is a longer test message."
	if subs[0].Message != want {
		t.Fatalf("stored message = %q, want %q", subs[0].Message, want)
	}
}
