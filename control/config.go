// File: control/config.go
// License: Apache-2.0
//
// Reactor tuning configuration with defaults and environment overrides.

package control

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by FromEnv.
const (
	EnvMaxEvents     = "SOCKMUX_MAX_EVENTS"
	EnvBacklog       = "SOCKMUX_BACKLOG"
	EnvReadChunkSize = "SOCKMUX_READ_CHUNK_SIZE"
)

// Config carries the multiplexer tuning knobs.
type Config struct {
	// MaxEvents bounds the number of readiness events consumed per poll
	// pass.
	MaxEvents int

	// Backlog is passed to listen(2) when creating listen sockets.
	Backlog int

	// ReadChunkSize is the per-read buffer size used by stream sockets
	// when draining a readable descriptor.
	ReadChunkSize int
}

// DefaultConfig returns a working set of defaults.
func DefaultConfig() Config {
	return Config{
		MaxEvents:     128,
		Backlog:       1024,
		ReadChunkSize: 64 << 10,
	}
}

// FromEnv returns DefaultConfig overridden by SOCKMUX_* environment
// variables. A .env file in the working directory is loaded first, without
// overriding variables already present in the environment.
func FromEnv() Config {
	_ = godotenv.Load(".env")

	cfg := DefaultConfig()
	overrideInt(&cfg.MaxEvents, EnvMaxEvents)
	overrideInt(&cfg.Backlog, EnvBacklog)
	overrideInt(&cfg.ReadChunkSize, EnvReadChunkSize)
	return cfg
}

// Sanitize clamps nonsensical values back to defaults.
func (c Config) Sanitize() Config {
	def := DefaultConfig()
	if c.MaxEvents <= 0 {
		c.MaxEvents = def.MaxEvents
	}
	if c.Backlog <= 0 {
		c.Backlog = def.Backlog
	}
	if c.ReadChunkSize <= 0 {
		c.ReadChunkSize = def.ReadChunkSize
	}
	return c
}

func overrideInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}
