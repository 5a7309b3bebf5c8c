package classifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/internal/failures"
	"github.com/JaimeStill/empath/pkg/backend"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRemote(t *testing.T, url string, timeout time.Duration) *classifier.Remote {
	t.Helper()
	cfg := &backend.Config{BaseURL: url}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize backend config: %v", err)
	}
	return classifier.NewRemote(backend.New(cfg, nil), timeout, discardLogger())
}

func TestRemoteClassifyRequest(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"emotion":"joy","confidence":0.9,"scores":[{"label":"joy","score":0.9}]}`))
	}))
	defer srv.Close()

	c := newRemote(t, srv.URL+"/api", 0)

	raw, err := c.Classify(context.Background(), classifier.NewRequest("I feel great"), "tok-123")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/api/emotions/analyze" {
		t.Errorf("path = %s, want /api/emotions/analyze", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotBody["text"] != "I feel great" {
		t.Errorf("body text = %v, want %q", gotBody["text"], "I feel great")
	}
	if len(gotBody) != 1 {
		t.Errorf("body has %d fields, want only text", len(gotBody))
	}

	var pred classifier.Prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if pred.Emotion != "joy" {
		t.Errorf("emotion = %q, want joy", pred.Emotion)
	}
}

func TestRemoteClassifyOmitsEmptyToken(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := newRemote(t, srv.URL, 0).Classify(context.Background(), classifier.NewRequest("hi"), ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if hasAuth {
		t.Error("Authorization header sent without a token")
	}
}

func TestRemoteClassifyStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   failures.Kind
	}{
		{"bad request", http.StatusBadRequest, `{"error":"text required"}`, failures.InvalidInput},
		{"unauthorized", http.StatusUnauthorized, `{"error":"expired"}`, failures.Unauthorized},
		{"not found", http.StatusNotFound, ``, failures.ServiceUnavailable},
		{"rate limited", http.StatusTooManyRequests, ``, failures.RateLimited},
		{"model loading", http.StatusInternalServerError, `{"error":"Model is still loading"}`, failures.ModelWarmingUp},
		{"plain 500", http.StatusInternalServerError, `{"error":"database down"}`, failures.ServerError},
		{"500 without json", http.StatusInternalServerError, `model crashed`, failures.ServerError},
		{"bad gateway", http.StatusBadGateway, ``, failures.ServerError},
		{"service unavailable status", http.StatusServiceUnavailable, ``, failures.ServerError},
		{"non-200 success", http.StatusAccepted, `{}`, failures.ServerError},
		{"unlisted 4xx", http.StatusForbidden, ``, failures.ServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newRemote(t, srv.URL, 0).Classify(context.Background(), classifier.NewRequest("text"), "tok")
			if got := failures.KindOf(err); got != tt.want {
				t.Fatalf("kind = %q, want %q (err: %v)", got, tt.want, err)
			}

			var fe *failures.Error
			if !errors.As(err, &fe) || fe.Status != tt.status {
				t.Errorf("status on error = %v, want %d", fe, tt.status)
			}
		})
	}
}

func TestRemoteClassifyTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newRemote(t, srv.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := c.Classify(context.Background(), classifier.NewRequest("slow"), "tok")
	if got := failures.KindOf(err); got != failures.Timeout {
		t.Fatalf("kind = %q, want timeout (err: %v)", got, err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call took %v, want it aborted near the timeout", elapsed)
	}
}

func TestRemoteClassifyParentCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := newRemote(t, srv.URL, 0).Classify(ctx, classifier.NewRequest("bye"), "tok")
	if got := failures.KindOf(err); got != failures.Timeout {
		t.Fatalf("kind = %q, want timeout (err: %v)", got, err)
	}
}

func TestRemoteClassifyNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newRemote(t, url, 0).Classify(context.Background(), classifier.NewRequest("anyone there"), "tok")
	if got := failures.KindOf(err); got != failures.NetworkUnavailable {
		t.Fatalf("kind = %q, want network_unavailable (err: %v)", got, err)
	}
	if !failures.KindOf(err).Transient() {
		t.Error("network_unavailable should be transient")
	}
}
