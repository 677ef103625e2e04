// File: control/config_test.go
// License: Apache-2.0

package control

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxEvents <= 0 || cfg.Backlog <= 0 || cfg.ReadChunkSize <= 0 {
		t.Fatalf("defaults contain non-positive values: %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvMaxEvents, "32")
	t.Setenv(EnvBacklog, "7")
	t.Setenv(EnvReadChunkSize, "512")

	cfg := FromEnv()
	if cfg.MaxEvents != 32 {
		t.Errorf("MaxEvents = %d, want 32", cfg.MaxEvents)
	}
	if cfg.Backlog != 7 {
		t.Errorf("Backlog = %d, want 7", cfg.Backlog)
	}
	if cfg.ReadChunkSize != 512 {
		t.Errorf("ReadChunkSize = %d, want 512", cfg.ReadChunkSize)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv(EnvMaxEvents, "not-a-number")
	cfg := FromEnv()
	if cfg.MaxEvents != DefaultConfig().MaxEvents {
		t.Errorf("MaxEvents = %d, want default %d", cfg.MaxEvents, DefaultConfig().MaxEvents)
	}
}

func TestSanitizeClampsToDefaults(t *testing.T) {
	cfg := Config{MaxEvents: -1, Backlog: 0, ReadChunkSize: -5}.Sanitize()
	if cfg != DefaultConfig() {
		t.Fatalf("Sanitize() = %+v, want defaults", cfg)
	}
}

func TestSanitizeKeepsValidValues(t *testing.T) {
	in := Config{MaxEvents: 8, Backlog: 16, ReadChunkSize: 4096}
	if got := in.Sanitize(); got != in {
		t.Fatalf("Sanitize() = %+v, want unchanged %+v", got, in)
	}
}
