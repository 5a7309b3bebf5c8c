package classifier_test

import (
	"context"
	"testing"
	"time"

	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/pkg/backend"
	"github.com/JaimeStill/empath/pkg/lifecycle"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &classifier.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Mode != classifier.ModeRemote {
		t.Errorf("mode = %q, want remote", cfg.Mode)
	}
	if cfg.TimeoutDuration() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.TimeoutDuration())
	}
	if cfg.InitTimeoutDuration() != classifier.DefaultInitTimeout {
		t.Errorf("init timeout = %v, want %v", cfg.InitTimeoutDuration(), classifier.DefaultInitTimeout)
	}
	if cfg.Workers < 1 {
		t.Errorf("workers = %d, want positive", cfg.Workers)
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("TEST_CLASSIFIER_MODE", "embedded")
	t.Setenv("TEST_CLASSIFIER_WORKERS", "3")
	t.Setenv("TEST_CLASSIFIER_LEXICON", "lexicons/custom.yaml")

	cfg := &classifier.Config{}
	env := &classifier.Env{
		Mode:       "TEST_CLASSIFIER_MODE",
		Workers:    "TEST_CLASSIFIER_WORKERS",
		LexiconKey: "TEST_CLASSIFIER_LEXICON",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Mode != classifier.ModeEmbedded || cfg.Workers != 3 || cfg.LexiconKey != "lexicons/custom.yaml" {
		t.Errorf("config = %+v, want env overrides applied", cfg)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  classifier.Config
	}{
		{"unknown mode", classifier.Config{Mode: "cloud"}},
		{"bad timeout", classifier.Config{Timeout: "soon"}},
		{"negative init timeout", classifier.Config{InitTimeout: "-1s"}},
		{"negative workers", classifier.Config{Workers: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := &classifier.Config{Mode: "remote", Timeout: "30s", Workers: 2}
	base.Merge(&classifier.Config{Mode: "embedded", Workers: 8})

	if base.Mode != "embedded" || base.Workers != 8 || base.Timeout != "30s" {
		t.Errorf("merged = %+v", base)
	}
}

func TestNewSelectsMode(t *testing.T) {
	bcfg := &backend.Config{}
	if err := bcfg.Finalize(nil); err != nil {
		t.Fatalf("backend finalize: %v", err)
	}
	client := backend.New(bcfg, nil)

	remote := &classifier.Config{}
	remote.Finalize(nil)
	if _, ok := classifier.New(remote, client, nil, discardLogger()).(interface{ Handle() *classifier.ModelHandle }); ok {
		t.Error("remote mode built an embedded classifier")
	}

	embedded := &classifier.Config{Mode: classifier.ModeEmbedded}
	embedded.Finalize(nil)
	if _, ok := classifier.New(embedded, client, nil, discardLogger()).(interface{ Handle() *classifier.ModelHandle }); !ok {
		t.Error("embedded mode did not build an embedded classifier")
	}
}

func TestEmbeddedStartReadiness(t *testing.T) {
	cfg := &classifier.Config{Mode: classifier.ModeEmbedded}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	sys := classifier.New(cfg, nil, nil, discardLogger())

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lc.WaitForStartup()

	if err := lc.Probe(context.Background()); err != nil {
		t.Errorf("Probe after warm-up: %v", err)
	}
	if err := lc.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
