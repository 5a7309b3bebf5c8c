package cache_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/empath/pkg/cache"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      cache.Config
		wantAddr string
		wantDB   int
		wantPass string
	}{
		{"host port", cache.Config{Addr: "cache:6379"}, "cache:6379", 0, ""},
		{"url", cache.Config{Addr: "redis://:secret@cache:6380/2"}, "cache:6380", 2, "secret"},
		{"explicit overrides url", cache.Config{Addr: "redis://cache:6380/2", DB: 4, Password: "p"}, "cache:6380", 4, "p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := cache.Options(&tt.cfg)
			if err != nil {
				t.Fatalf("Options: %v", err)
			}
			if opts.Addr != tt.wantAddr {
				t.Errorf("addr = %q, want %q", opts.Addr, tt.wantAddr)
			}
			if opts.DB != tt.wantDB {
				t.Errorf("db = %d, want %d", opts.DB, tt.wantDB)
			}
			if opts.Password != tt.wantPass {
				t.Errorf("password = %q, want %q", opts.Password, tt.wantPass)
			}
		})
	}
}

func TestOptionsInvalidURL(t *testing.T) {
	if _, err := cache.Options(&cache.Config{Addr: "redis://cache:6379/notadb"}); err == nil {
		t.Error("expected error for invalid db in url")
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_CACHE_ADDR", "redis-host:7000")
	t.Setenv("TEST_CACHE_DB", "3")

	cfg := cache.Config{}
	err := cfg.Finalize(&cache.Env{Addr: "TEST_CACHE_ADDR", DB: "TEST_CACHE_DB"})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Addr != "redis-host:7000" || cfg.DB != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ConnTimeoutDuration() != 5*time.Second {
		t.Errorf("conn timeout = %v, want 5s", cfg.ConnTimeoutDuration())
	}
}

func TestConfigInvalidTimeout(t *testing.T) {
	cfg := cache.Config{ConnTimeout: "soon"}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error for invalid conn_timeout")
	}
}

func TestNew(t *testing.T) {
	sys, err := cache.New(&cache.Config{Addr: "localhost:6379", ConnTimeout: "1s"}, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sys.Client() == nil {
		t.Fatal("Client() returned nil")
	}
	if err := sys.Client().Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
