package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/JaimeStill/empath/internal/chat"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
)

func TestPrintTurn(t *testing.T) {
	reply := &chat.Message{Role: chat.RoleBot, Content: "That's wonderful!"}

	tests := []struct {
		name string
		turn *chat.Turn
		want []string
	}{
		{
			name: "recommended",
			turn: &chat.Turn{
				BotMessage:               reply,
				Emotion:                  &emotions.Result{Emotion: emotions.Joy, Confidence: 0.91},
				RecommendationsTriggered: true,
			},
			want: []string{"bot> That's wonderful!", "[joy 91%, recommendations on the way]"},
		},
		{
			name: "degraded",
			turn: &chat.Turn{
				BotMessage: reply,
				Failure:    &chat.Failure{Kind: failures.Timeout, Message: "request timed out"},
			},
			want: []string{"bot> That's wonderful!", "! request timed out (timeout)"},
		},
		{
			name: "rejected",
			turn: &chat.Turn{
				Failure: &chat.Failure{Kind: failures.EmptyInput, Message: "message is empty"},
			},
			want: []string{"! message is empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printTurn(&buf, tt.turn)

			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestOpenSessionShutsDownOnSignInFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	issuer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := issuer.URL
	issuer.Close()

	t.Chdir(t.TempDir())
	t.Setenv("EMPATH_AUTH_ISSUER", url)
	t.Setenv("EMPATH_AUTH_CLIENT_ID", "empath-cli")

	s, err := openSession(context.Background(), &options{token: "tok"})
	if err == nil {
		s.close()
		t.Fatal("expected auth init failure")
	}
	if !strings.Contains(err.Error(), "auth init failed") {
		t.Errorf("err = %v, want auth init failure", err)
	}
}
