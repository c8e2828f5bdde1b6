package config

import (
	"fmt"
	"time"
)

// Tuning holds the operational knobs of one server profile. Durations are
// stored as integers in their JSON unit and exposed as time.Duration through
// the accessor methods.
type Tuning struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Token bucket applied per connection to mutating messages.
	RateLimitCapacity int `json:"rate_limit_capacity"`
	RateLimitRefillMS int `json:"rate_limit_refill_ms"`

	// Lobby housekeeping.
	InviteTTLSeconds        int `json:"invite_ttl_s"`
	LobbyIdleTimeoutSeconds int `json:"lobby_idle_timeout_s"`

	// Session reaping.
	DisconnectTimeoutSeconds int `json:"disconnect_timeout_s"`
	SessionMaxAgeHours       int `json:"session_max_age_h"`
	SweepIntervalSeconds     int `json:"sweep_interval_s"`

	// Chat bounds.
	ChatHistorySize int `json:"chat_history_size"`
	ChatMaxLength   int `json:"chat_max_length"`

	// Upper bound for a single websocket frame.
	MaxMessageBytes int64 `json:"max_message_bytes"`
}

// DefaultTuning returns the built-in profile used when no profile directory
// entry is available.
func DefaultTuning() *Tuning {
	return &Tuning{
		Name:                     "default",
		Description:              "Built-in default tuning",
		RateLimitCapacity:        8,
		RateLimitRefillMS:        500,
		InviteTTLSeconds:         60,
		LobbyIdleTimeoutSeconds:  300,
		DisconnectTimeoutSeconds: 120,
		SessionMaxAgeHours:       6,
		SweepIntervalSeconds:     30,
		ChatHistorySize:          50,
		ChatMaxLength:            500,
		MaxMessageBytes:          4096,
	}
}

// RateLimitRefill returns the token bucket refill interval.
func (t *Tuning) RateLimitRefill() time.Duration {
	return time.Duration(t.RateLimitRefillMS) * time.Millisecond
}

// InviteTTL returns how long an invitation stays accepted or declinable.
func (t *Tuning) InviteTTL() time.Duration {
	return time.Duration(t.InviteTTLSeconds) * time.Second
}

// LobbyIdleTimeout returns how long a silent lobby entry survives sweeps.
func (t *Tuning) LobbyIdleTimeout() time.Duration {
	return time.Duration(t.LobbyIdleTimeoutSeconds) * time.Second
}

// DisconnectTimeout returns how long a fully disconnected session is kept
// for reconnection.
func (t *Tuning) DisconnectTimeout() time.Duration {
	return time.Duration(t.DisconnectTimeoutSeconds) * time.Second
}

// SessionMaxAge returns the hard age limit for any session.
func (t *Tuning) SessionMaxAge() time.Duration {
	return time.Duration(t.SessionMaxAgeHours) * time.Hour
}

// SweepInterval returns the cadence of the background sweeps.
func (t *Tuning) SweepInterval() time.Duration {
	return time.Duration(t.SweepIntervalSeconds) * time.Second
}

// Validate checks t for structural problems and returns the first one.
func Validate(t *Tuning) error {
	if t == nil {
		return fmt.Errorf("tuning is nil")
	}
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.RateLimitCapacity < 1 {
		return fmt.Errorf("rate_limit_capacity must be at least 1, got %d", t.RateLimitCapacity)
	}
	if t.RateLimitRefillMS < 10 {
		return fmt.Errorf("rate_limit_refill_ms must be at least 10, got %d", t.RateLimitRefillMS)
	}
	if t.InviteTTLSeconds < 1 {
		return fmt.Errorf("invite_ttl_s must be at least 1, got %d", t.InviteTTLSeconds)
	}
	if t.LobbyIdleTimeoutSeconds < 10 {
		return fmt.Errorf("lobby_idle_timeout_s must be at least 10, got %d", t.LobbyIdleTimeoutSeconds)
	}
	if t.DisconnectTimeoutSeconds < 5 {
		return fmt.Errorf("disconnect_timeout_s must be at least 5, got %d", t.DisconnectTimeoutSeconds)
	}
	if t.SessionMaxAgeHours < 1 {
		return fmt.Errorf("session_max_age_h must be at least 1, got %d", t.SessionMaxAgeHours)
	}
	if t.SweepIntervalSeconds < 1 {
		return fmt.Errorf("sweep_interval_s must be at least 1, got %d", t.SweepIntervalSeconds)
	}
	if t.ChatHistorySize < 1 || t.ChatHistorySize > 1000 {
		return fmt.Errorf("chat_history_size must be within [1,1000], got %d", t.ChatHistorySize)
	}
	if t.ChatMaxLength < 1 || t.ChatMaxLength > 10000 {
		return fmt.Errorf("chat_max_length must be within [1,10000], got %d", t.ChatMaxLength)
	}
	if t.MaxMessageBytes < 256 || t.MaxMessageBytes > 1<<20 {
		return fmt.Errorf("max_message_bytes must be within [256,1048576], got %d", t.MaxMessageBytes)
	}
	return nil
}
