package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/empath/pkg/database"
	"github.com/JaimeStill/empath/pkg/lifecycle"
)

func testConfig(t *testing.T) *database.Config {
	t.Helper()
	cfg := &database.Config{
		Host:         "localhost",
		Port:         5432,
		MaxOpenConns: 42,
		MaxIdleConns: 7,
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSetsPoolParams(t *testing.T) {
	sys, err := database.New(testConfig(t), discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := sys.Connection()
	if conn == nil {
		t.Fatal("Connection() returned nil")
	}
	defer conn.Close()

	if got := conn.Stats().MaxOpenConnections; got != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", got)
	}
}

func TestPingBeforeStart(t *testing.T) {
	sys, err := database.New(testConfig(t), discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Connection().Close()

	if err := sys.Ping(context.Background()); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping() error = %v, want ErrNotReady", err)
	}
}

func TestStartRegistersReadinessCheck(t *testing.T) {
	sys, err := database.New(testConfig(t), discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	lc.WaitForStartup()
	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	// The startup ping may or may not reach a server; after shutdown the
	// connection is closed and the check must fail either way.
	if err := lc.Probe(context.Background()); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Probe() error = %v, want ErrNotReady", err)
	}
}
