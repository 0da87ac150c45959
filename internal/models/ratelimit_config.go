package models

import "time"

// Rate limit scopes. Each scope has its own limiter and its own row in ratelimit_config.
const (
	RatelimitScopeSession = "session"
	RatelimitScopeContact = "contact"
)

// RatelimitScopes lists the scopes the server enforces.
var RatelimitScopes = []string{RatelimitScopeSession, RatelimitScopeContact}

// RatelimitConfig holds a ulule-format rate (e.g. "5-M", "100-H") for one scope.
type RatelimitConfig struct {
	ConfigKey string    `json:"config_key"`
	Rate      string    `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultRate returns the rate used for scope when nothing is stored.
func DefaultRate(scope string) string {
	switch scope {
	case RatelimitScopeSession:
		return "10-M"
	case RatelimitScopeContact:
		return "5-H"
	}
	return "60-M"
}
