package logger

import (
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLevels(t *testing.T) {
	z, err := NewZap("warn", false)
	if err != nil {
		t.Fatalf("new zap: %v", err)
	}
	if z.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be disabled at warn level")
	}

	z, err = NewZap("verbose", false)
	if err != nil {
		t.Fatalf("new zap: %v", err)
	}
	if !z.Core().Enabled(zapcore.InfoLevel) || z.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("unknown level must fall back to info")
	}
}

func TestAdapterRoutesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	InitSlog(zap.New(core))

	l := NewSlogAdapter()
	l.Info("Wallet connected", "account", "0xabc")
	l.Debug("Sync started")
	l.Error("Sync failed", "error", "execution reverted")

	if logs.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", logs.Len())
	}
	first := logs.All()[0]
	if first.Message != "Wallet connected" || first.ContextMap()["account"] != "0xabc" {
		t.Fatalf("unexpected entry %+v", first)
	}
	if logs.All()[2].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected level %s", logs.All()[2].Level)
	}
}

func TestFatalLogsThenExits(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	InitSlog(zap.New(core))

	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	Fatal("Failed to start server", "addr", ":8080")

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if logs.Len() != 1 || logs.All()[0].Message != "Failed to start server" {
		t.Fatalf("unexpected entries %+v", logs.All())
	}
	if logs.All()[0].ContextMap()["addr"] != ":8080" {
		t.Fatalf("fields not forwarded: %+v", logs.All()[0].ContextMap())
	}
}
