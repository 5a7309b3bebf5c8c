package classifier_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
	"github.com/JaimeStill/empath/pkg/routes"
)

func analyzeServer(t *testing.T, c classifier.Classifier) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	routes.Register(mux, classifier.NewHandler(c, discardLogger()).Routes())
	srv := httptest.NewServer(auth.Middleware(auth.DevVerifier{Subject: "user-1"}, discardLogger())(mux))
	t.Cleanup(srv.Close)
	return srv
}

func TestHandlerAnalyze(t *testing.T) {
	srv := analyzeServer(t, newEmbedded(t))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"classified", `{"text":"I am so happy today"}`, http.StatusOK},
		{"empty text", `{"text":"   "}`, http.StatusBadRequest},
		{"invalid body", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/emotions/analyze", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestHandlerRoundTripsThroughRemote(t *testing.T) {
	srv := analyzeServer(t, newEmbedded(t))
	remote := newRemote(t, srv.URL, 0)

	raw, err := remote.Classify(context.Background(), classifier.NewRequest("I feel sad and lonely"), "tok")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	result, _, err := emotions.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if result.Emotion != emotions.Sadness {
		t.Errorf("emotion = %s, want sadness", result.Emotion)
	}
}

func TestHandlerWarmingUpRoundTrips(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)

	acc := &countingDevice{name: "accelerated", gate: gate}
	h := classifier.NewModelHandle(classifier.BuiltinLexicon{}, acc, classifier.SerialDevice{}, time.Second, discardLogger())
	srv := analyzeServer(t, classifier.NewEmbedded(h, 20*time.Millisecond, discardLogger()))

	_, err := newRemote(t, srv.URL, 0).Classify(context.Background(), classifier.NewRequest("hello"), "tok")
	if got := failures.KindOf(err); got != failures.ModelWarmingUp {
		t.Fatalf("kind = %q, want model_warming_up (err: %v)", got, err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		kind failures.Kind
		want int
	}{
		{failures.InvalidInput, http.StatusBadRequest},
		{failures.TooLong, http.StatusBadRequest},
		{failures.Unauthorized, http.StatusUnauthorized},
		{failures.RateLimited, http.StatusTooManyRequests},
		{failures.Timeout, http.StatusGatewayTimeout},
		{failures.ServiceUnavailable, http.StatusServiceUnavailable},
		{failures.ModelWarmingUp, http.StatusInternalServerError},
		{failures.ServerError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := classifier.MapHTTPStatus(failures.New(tt.kind, nil)); got != tt.want {
			t.Errorf("MapHTTPStatus(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

type failingClassifier struct{ kind failures.Kind }

func (f failingClassifier) Classify(context.Context, classifier.Request, string) (emotions.Raw, error) {
	return nil, failures.Newf(f.kind, "upstream %s", f.kind)
}

func TestHandlerFailuresThroughRemote(t *testing.T) {
	tests := []struct {
		kind failures.Kind
		want failures.Kind
	}{
		{failures.Unauthorized, failures.Unauthorized},
		{failures.RateLimited, failures.RateLimited},
		{failures.InvalidInput, failures.InvalidInput},
		{failures.Timeout, failures.ServerError},
		{failures.ServiceUnavailable, failures.ServerError},
		{failures.NetworkUnavailable, failures.ServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			srv := analyzeServer(t, failingClassifier{kind: tt.kind})

			_, err := newRemote(t, srv.URL, 0).Classify(context.Background(), classifier.NewRequest("hello"), "tok")
			if got := failures.KindOf(err); got != tt.want {
				t.Errorf("kind = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}
