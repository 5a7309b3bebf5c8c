package classifier_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
)

func TestParseLexicon(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"valid", "version: t\nemotions:\n  joy: [happy]\n", false},
		{"mixed case key", "emotions:\n  Sadness: [sad]\n", false},
		{"unknown emotion", "emotions:\n  disgust: [gross]\n", true},
		{"empty cues", "emotions:\n  joy: []\n", true},
		{"no emotions", "version: t\n", true},
		{"negative baseline", "baseline: -1\nemotions:\n  joy: [happy]\n", true},
		{"unknown field", "emotions:\n  joy: [happy]\nweights: {}\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classifier.ParseLexicon([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLexiconDefaultBaseline(t *testing.T) {
	lex, err := classifier.ParseLexicon([]byte("emotions:\n  joy: [happy]\n"))
	if err != nil {
		t.Fatalf("ParseLexicon: %v", err)
	}
	if lex.Baseline != classifier.DefaultBaseline {
		t.Errorf("baseline = %v, want %v", lex.Baseline, classifier.DefaultBaseline)
	}
}

type memoryBlobs map[string]string

func (m memoryBlobs) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func TestStoredLexicon(t *testing.T) {
	store := memoryBlobs{"lexicons/v2.yaml": "version: v2\nemotions:\n  fear: [spiders]\n"}

	lex, err := classifier.StoredLexicon{Store: store, Key: "lexicons/v2.yaml"}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lex.Version != "v2" {
		t.Errorf("version = %q, want v2", lex.Version)
	}

	if _, err := (classifier.StoredLexicon{Store: store, Key: "missing.yaml"}).Load(context.Background()); err == nil {
		t.Error("expected error for missing blob")
	}
}

func newEmbedded(t *testing.T, devices ...classifier.Device) *classifier.Embedded {
	t.Helper()
	acc := classifier.Device(classifier.ParallelDevice{Workers: 4})
	if len(devices) > 0 {
		acc = devices[0]
	}
	h := classifier.NewModelHandle(classifier.BuiltinLexicon{}, acc, classifier.SerialDevice{}, time.Second, discardLogger())
	return classifier.NewEmbedded(h, 0, discardLogger())
}

func TestEmbeddedClassifyProducesNormalizablePayload(t *testing.T) {
	tests := []struct {
		name string
		text string
		want emotions.Label
	}{
		{"joy", "I am so happy and excited today", emotions.Joy},
		{"sadness", "I feel sad and lonely", emotions.Sadness},
		{"anger", "I'm furious, this is so unfair", emotions.Anger},
		{"fear", "I'm scared and anxious about tomorrow", emotions.Fear},
		{"love", "I love my partner and I'm grateful", emotions.Love},
		{"surprise", "Wow, I can't believe it, I'm shocked", emotions.Surprise},
		{"no cues", "the bus leaves at nine", emotions.Neutral},
	}

	c := newEmbedded(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := c.Classify(context.Background(), classifier.NewRequest(tt.text), "")
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}

			result, coerced, err := emotions.Normalize(raw)
			if err != nil {
				t.Fatalf("Normalize(%s): %v", raw, err)
			}
			if len(coerced) != 0 {
				t.Errorf("coerced = %v, want none", coerced)
			}
			if result.Emotion != tt.want {
				t.Errorf("emotion = %q, want %q", result.Emotion, tt.want)
			}

			var sum float64
			for _, s := range result.AllScores {
				sum += s.Score
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("scores sum to %v, want 1", sum)
			}
		})
	}
}

func TestEmbeddedSerialAndParallelAgree(t *testing.T) {
	text := "I was surprised and happy, but also a little nervous"

	par, err := newEmbedded(t).Classify(context.Background(), classifier.NewRequest(text), "")
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	ser, err := newEmbedded(t, classifier.SerialDevice{}).Classify(context.Background(), classifier.NewRequest(text), "")
	if err != nil {
		t.Fatalf("serial: %v", err)
	}

	if !bytes.Equal(par, ser) {
		t.Errorf("payloads differ:\nparallel: %s\nserial:   %s", par, ser)
	}
}

func TestEmbeddedWarmingUp(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)

	acc := &countingDevice{name: "accelerated", gate: gate}
	h := classifier.NewModelHandle(classifier.BuiltinLexicon{}, acc, classifier.SerialDevice{}, time.Second, discardLogger())
	c := classifier.NewEmbedded(h, 20*time.Millisecond, discardLogger())

	_, err := c.Classify(context.Background(), classifier.NewRequest("hello"), "")
	if got := failures.KindOf(err); got != failures.ModelWarmingUp {
		t.Fatalf("kind = %q, want model_warming_up (err: %v)", got, err)
	}
}

func TestEmbeddedInitFailure(t *testing.T) {
	errBroken := errors.New("no device")
	acc := &countingDevice{name: "accelerated", err: errBroken}
	fb := &countingDevice{name: "fallback", err: errBroken}
	h := classifier.NewModelHandle(classifier.BuiltinLexicon{}, acc, fb, time.Second, discardLogger())
	c := classifier.NewEmbedded(h, 0, discardLogger())

	for range 2 {
		_, err := c.Classify(context.Background(), classifier.NewRequest("hello"), "")
		if got := failures.KindOf(err); got != failures.ServiceUnavailable {
			t.Fatalf("kind = %q, want service_unavailable (err: %v)", got, err)
		}
	}
	if n := fb.loads.Load(); n != 1 {
		t.Errorf("fallback loads = %d, want 1", n)
	}
}
