package config

import "time"

// TimeoutConfig holds timeout settings for the network transport.
// These can be configured via CLI flags.
type TimeoutConfig struct {
	// WebSocketPing is the interval between WebSocket keepalive pings.
	// Default: 30s
	WebSocketPing time.Duration

	// WebSocketWrite bounds a single response write to a client.
	// Default: 10s
	WebSocketWrite time.Duration

	// ShutdownGrace is how long the listener waits for the active client
	// to finish on shutdown. Default: 5s
	ShutdownGrace time.Duration
}

// DefaultTimeoutConfig returns the default timeout configuration
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		WebSocketPing:  30 * time.Second,
		WebSocketWrite: 10 * time.Second,
		ShutdownGrace:  5 * time.Second,
	}
}

// global instance that can be set at startup
var globalTimeouts = DefaultTimeoutConfig()

// SetGlobalTimeouts sets the global timeout configuration
func SetGlobalTimeouts(cfg *TimeoutConfig) {
	globalTimeouts = cfg
}

// GetTimeouts returns the global timeout configuration
func GetTimeouts() *TimeoutConfig {
	return globalTimeouts
}
