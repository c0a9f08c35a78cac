package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSessionIDIsHashed(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("step", "session_id", "3f2a-secret", "step", "idade")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	got, _ := fields["session_id"].(string)
	if !strings.HasPrefix(got, "hash:") || strings.Contains(got, "secret") {
		t.Errorf("session_id = %q, want hashed", got)
	}
	if fields["step"] != "idade" {
		t.Errorf("step = %v", fields["step"])
	}
}

func TestHashValueStable(t *testing.T) {
	a := HashValue("salt", "abc")
	if a != HashValue("salt", "abc") {
		t.Error("hash not stable")
	}
	if a == HashValue("other", "abc") {
		t.Error("salt ignored")
	}
	if HashValue("", "") != "" {
		t.Error("empty value should stay empty")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("ignored", "k", "v")
	l.With("k", "v").Debug("ignored")
	l.Sync()
}
