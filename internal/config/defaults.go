package config

import "time"

// defaultPingInterval matches the widget's historical 10-minute heartbeat
// that keeps a cold-starting backend warm.
const defaultPingInterval = 10 * time.Minute

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8080,
		BackendBaseURL:  "http://localhost:8000",
		DataDir:         ".momochat",
		PingInterval:    "10m",
		AllowAllOrigins: false,
	}
}
