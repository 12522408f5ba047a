package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// ErrInsecureRPCURL indicates an RPC URL is using plaintext HTTP.
var ErrInsecureRPCURL = errors.New("RPC URL must use HTTPS")

// Environment variable names.
const (
	EnvHome             = "AURUM_HOME"
	EnvDefaultNetworkID = "AURUM_DEFAULT_NETWORK"
	EnvLogLevel         = "AURUM_LOG_LEVEL"
	EnvLogFile          = "AURUM_LOG_FILE"
	EnvLogJSON          = "AURUM_LOG_JSON"
	EnvApprovalTimeout  = "AURUM_APPROVAL_TIMEOUT_SEC"
	EnvRateLimitBurst   = "AURUM_RATE_LIMIT_BURST"
	EnvRateLimitPerSec  = "AURUM_RATE_LIMIT_PER_SEC"
)

// ApplyEnvironment applies environment variable overrides to the
// configuration, mirroring the teacher's env.go layering pattern:
// invalid values are recorded as warnings rather than rejected
// outright, since validation errors surface at connection time anyway.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvDefaultNetworkID); v != "" {
		cfg.Networks.DefaultNetworkID = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}

	if v := os.Getenv(EnvLogJSON); v != "" {
		cfg.Logging.JSON = parseBool(v)
	}

	if v := os.Getenv(EnvApprovalTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Security.ApprovalTimeoutSec = n
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: invalid integer %q", EnvApprovalTimeout, v))
		}
	}

	if v := os.Getenv(EnvRateLimitBurst); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Security.RateLimitBurst = n
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: invalid integer %q", EnvRateLimitBurst, v))
		}
	}

	if v := os.Getenv(EnvRateLimitPerSec); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Security.RateLimitPerSec = n
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: invalid integer %q", EnvRateLimitPerSec, v))
		}
	}
}

// parseBool parses a boolean string value, defaulting to false on
// anything it doesn't recognize.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// ValidateRPCURL validates that an RPC URL uses HTTPS or WSS; any scheme
// is accepted for a localhost, 127.0.0.1 or ::1 host (development), and
// an empty URL is accepted. This differs from internal/netregistry's
// check on network entries, which accepts http and https URLs for any
// host and rejects other schemes.
func ValidateRPCURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid RPC URL: %w", err)
	}

	if u.Scheme == "https" || u.Scheme == "wss" {
		return nil
	}

	host := u.Hostname()
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return nil
	}

	return fmt.Errorf("%w (got %s://%s): plaintext HTTP exposes signed transactions to network attackers", ErrInsecureRPCURL, u.Scheme, u.Host)
}
