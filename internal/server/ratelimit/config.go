package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the limiter settings. Whitelisted clients bypass all
// budgets; blacklisted clients are refused outright.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// EndpointConfig is a per-endpoint budget. A Path ending in "/" matches
// by prefix. Burst defaults to Limit when zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads limiter settings from RATE_LIMIT_* environment
// variables, falling back to the built-in defaults.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseClientList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseClientList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

func defaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the built-in per-endpoint budgets.
// Generation endpoints each occupy a headless Chrome instance, so they
// get the strictest limits; status reads fall under the default budget
// and the health check is never throttled.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/generate", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/generate/stream", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
	}
}

// budgetFor resolves the limit, window and burst applying to a request.
// A zero limit means unthrottled. Exact path matches win over prefix
// rules; requests matching no rule fall back to the default budget.
func (c *Config) budgetFor(path, method string) (limit int, window time.Duration, burst int) {
	if path == "/health" && method == "GET" {
		return 0, 0, 0
	}

	for i := range c.EndpointConfigs {
		ec := &c.EndpointConfigs[i]
		if ec.Method == method && ec.Path == path {
			return ec.Limit, ec.Window, ec.burst()
		}
	}
	for i := range c.EndpointConfigs {
		ec := &c.EndpointConfigs[i]
		if ec.Method == method && strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			return ec.Limit, ec.Window, ec.burst()
		}
	}

	return c.DefaultLimit, c.DefaultWindow, c.DefaultLimit
}

func (ec *EndpointConfig) burst() int {
	if ec.Burst > 0 {
		return ec.Burst
	}
	return ec.Limit
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// parseClientList splits a comma-separated list of client addresses
// into a membership set.
func parseClientList(list string) map[string]bool {
	set := make(map[string]bool)
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			set[addr] = true
		}
	}
	return set
}
