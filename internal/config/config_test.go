package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SINK_DRIVER", "SINK_TARGET", "SESSION_TTL", "REDIS_URI"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Port != "8080" || c.SinkDriver != SinkMongo || c.SinkTarget != "respostas" {
		t.Errorf("defaults = %+v", c)
	}
	if c.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", c.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SINK_DRIVER", "SQLite")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("LOCK_TTL", "nonsense")
	t.Setenv("REDIS_URI", "redis://cache:6379")
	t.Setenv("SUBMIT_TIMEOUT", "5s")
	t.Setenv("LOG_HASH_SALT", "pepper")

	c := Load()
	if c.SinkDriver != SinkSQLite {
		t.Errorf("SinkDriver = %q", c.SinkDriver)
	}
	if c.SessionTTL != 90*time.Minute {
		t.Errorf("SessionTTL = %v", c.SessionTTL)
	}
	if c.LockTTL != 30*time.Second {
		t.Errorf("LockTTL = %v, want default", c.LockTTL)
	}
	if c.SubmitTimeout != 5*time.Second || c.LogHashSalt != "pepper" {
		t.Errorf("SubmitTimeout = %v, LogHashSalt = %q", c.SubmitTimeout, c.LogHashSalt)
	}
	if c.RedisAddr() != "cache:6379" {
		t.Errorf("RedisAddr = %q", c.RedisAddr())
	}
}
