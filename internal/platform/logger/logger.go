// Package logger wraps a zap SugaredLogger. Identifiers that could link an
// anonymous response back to a person are hashed before they are written.
package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
	salt          string
}

// New builds a development logger, or a JSON production logger for
// mode "prod".
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	return &Logger{SugaredLogger: z.Sugar()}, nil
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithSalt returns a copy that mixes salt into hashed values.
func (l *Logger) WithSalt(salt string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{SugaredLogger: l.SugaredLogger, salt: salt}
}

func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, kv ...any) {
	if l == nil {
		return
	}
	l.SugaredLogger.Debugw(msg, l.sanitize(kv)...)
}

func (l *Logger) Info(msg string, kv ...any) {
	if l == nil {
		return
	}
	l.SugaredLogger.Infow(msg, l.sanitize(kv)...)
}

func (l *Logger) Warn(msg string, kv ...any) {
	if l == nil {
		return
	}
	l.SugaredLogger.Warnw(msg, l.sanitize(kv)...)
}

func (l *Logger) Error(msg string, kv ...any) {
	if l == nil {
		return
	}
	l.SugaredLogger.Errorw(msg, l.sanitize(kv)...)
}

func (l *Logger) Fatal(msg string, kv ...any) {
	if l == nil {
		return
	}
	l.SugaredLogger.Fatalw(msg, l.sanitize(kv)...)
}

func (l *Logger) With(kv ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{SugaredLogger: l.SugaredLogger.With(l.sanitize(kv)...), salt: l.salt}
}

func (l *Logger) sanitize(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := fmt.Sprint(kv[i])
		val := kv[i+1]
		if isHashKey(key) {
			val = HashValue(l.salt, val)
		}
		out = append(out, key, val)
	}
	return out
}

func isHashKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "session_id") || strings.Contains(key, "remote_addr")
}

// HashValue returns a short, stable digest of v.
func HashValue(salt string, v any) string {
	raw := strings.TrimSpace(fmt.Sprint(v))
	if v == nil || raw == "" {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}
