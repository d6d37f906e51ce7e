package config

import "time"

// Defaults applied before base.yaml. Exported where tests and callers need
// to compare against them.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10
	DefaultTransportIdleConnTimeout     = 90 * time.Second

	// DefaultStorageKeyPrefix namespaces every persisted key.
	DefaultStorageKeyPrefix = "artistly_"

	// DefaultManagerRole may read the submissions dashboard.
	DefaultManagerRole = "manager"
)

// section is a flat group of defaults under one key prefix.
type section struct {
	prefix string
	values map[string]any
}

var defaultSections = []section{
	{"app", map[string]any{
		"name":        "artistly",
		"version":     "dev",
		"environment": "local",
	}},
	{"server", map[string]any{
		"port":             DefaultServerPort,
		"host":             "0.0.0.0",
		"read_timeout":     "30s",
		"write_timeout":    "30s",
		"idle_timeout":     "120s",
		"shutdown_timeout": "10s",
		"max_request_size": DefaultMaxRequestSize,
	}},
	{"log", map[string]any{
		"level":            "info",
		"format":           "json",
		"file.enabled":     false,
		"file.path":        "./logs/artistly.log",
		"file.max_size":    DefaultLogFileMaxSizeMB,
		"file.max_backups": DefaultLogFileMaxBackups,
		"file.max_age":     DefaultLogFileMaxAgeDays,
		"file.compress":    true,
	}},
	{"telemetry", map[string]any{
		"enabled":       false,
		"endpoint":      "",
		"service_name":  "artistly",
		"sampling_rate": 1.0,
	}},
	{"auth", map[string]any{
		"enabled":        false,
		"manager_role":   DefaultManagerRole,
		"roles_header":   "X-User-Roles",
		"subject_header": "X-User-ID",
	}},
	{"client", map[string]any{
		"timeout":                           "30s",
		"retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"retry.initial_interval":            "100ms",
		"retry.max_interval":                "5s",
		"retry.multiplier":                  DefaultClientRetryMultiplier,
		"retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"circuit_breaker.timeout":           "30s",
		"circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"transport.idle_conn_timeout":       "90s",
	}},
	{"storage", map[string]any{
		"backend":             StorageBackendMemory,
		"key_prefix":          DefaultStorageKeyPrefix,
		"sqlite.path":         "./data/artistly.db",
		"sqlite.busy_timeout": "5s",
		"remote.base_url":     "",
		"remote.name":         "kv-store",
		"remote.auth_token":   "",
	}},
}

// defaults flattens defaultSections into koanf keys.
func defaults() map[string]any {
	out := make(map[string]any)
	for _, s := range defaultSections {
		for k, v := range s.values {
			out[s.prefix+"."+k] = v
		}
	}

	return out
}
