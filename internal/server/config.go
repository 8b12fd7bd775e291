package server

import (
	"time"

	"github.com/agentstation/overlaysync/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	Addr       string
	PathPrefix string

	CORSEnabled bool
	CORSOrigins []string

	ReadTimeout  time.Duration
	IdleTimeout  time.Duration
	ShutdownWait time.Duration
}

// DefaultConfig returns a Config listening on localhost only.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:8787",
		PathPrefix:   constants.DefaultAPIPrefix,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ShutdownWait: constants.ShutdownTimeout,
	}
}
