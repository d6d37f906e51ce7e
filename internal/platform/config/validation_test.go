package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "artistly",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			ManagerRole: DefaultManagerRole,
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Storage: StorageConfig{
			Backend:   StorageBackendMemory,
			KeyPrefix: DefaultStorageKeyPrefix,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},

		// app
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: "app.name is required",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantErr: "app.environment must be one of: local dev qa prod test",
		},
		{name: "prod environment", mutate: func(c *Config) { c.App.Environment = "prod" }},

		// server
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port must be at most 65535",
		},
		{
			name:    "read timeout below a second",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond },
			wantErr: "server.read_timeout must be at least 1s",
		},
		{
			name:    "missing max request size",
			mutate:  func(c *Config) { c.Server.MaxRequestSize = 0 },
			wantErr: "server.max_request_size is required",
		},

		// log
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level must be one of: trace debug info warn error",
		},
		{name: "trace level", mutate: func(c *Config) { c.Log.Level = "trace" }},
		{name: "pretty format", mutate: func(c *Config) { c.Log.Format = "pretty" }},
		{
			name:    "log file without path",
			mutate:  func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} },
			wantErr: "log.file.path is required when Enabled true",
		},
		{
			name: "log file too large",
			mutate: func(c *Config) {
				c.Log.File = LogFileConfig{Enabled: true, Path: "./logs/app.log", MaxSizeMB: 4096}
			},
			wantErr: "log.file.max_size must be at most 1024",
		},

		// telemetry
		{
			name:    "telemetry without endpoint",
			mutate:  func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "artistly"} },
			wantErr: "telemetry.endpoint is required when Enabled true",
		},
		{
			name: "telemetry endpoint not a url",
			mutate: func(c *Config) {
				c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "artistly", Endpoint: "collector"}
			},
			wantErr: "telemetry.endpoint must be a valid URL",
		},
		{
			name:    "sampling rate above one",
			mutate:  func(c *Config) { c.Telemetry.SamplingRate = 1.5 },
			wantErr: "telemetry.sampling_rate must be at most 1",
		},
		{
			name: "telemetry enabled",
			mutate: func(c *Config) {
				c.Telemetry = TelemetryConfig{
					Enabled:      true,
					Endpoint:     "http://otel-collector:4317",
					ServiceName:  "artistly",
					SamplingRate: 0.1,
				}
			},
		},

		// auth
		{
			name:    "auth enabled without manager role",
			mutate:  func(c *Config) { c.Auth = AuthConfig{Enabled: true} },
			wantErr: "auth.manager_role is required when Enabled true",
		},
		{name: "auth disabled without role", mutate: func(c *Config) { c.Auth = AuthConfig{} }},

		// client
		{
			name:    "client timeout too short",
			mutate:  func(c *Config) { c.Client.Timeout = 10 * time.Millisecond },
			wantErr: "client.timeout must be at least 100ms",
		},
		{
			name:    "too many retries",
			mutate:  func(c *Config) { c.Client.Retry.MaxAttempts = 11 },
			wantErr: "client.retry.max_attempts must be at most 10",
		},
		{
			name:    "flat backoff",
			mutate:  func(c *Config) { c.Client.Retry.Multiplier = 1.0 },
			wantErr: "client.retry.multiplier must be at least 1.1",
		},
		{
			name:    "circuit never opens",
			mutate:  func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 },
			wantErr: "client.circuit_breaker.max_failures is required",
		},

		// storage
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: "storage.backend must be one of: memory sqlite remote",
		},
		{
			name:    "key prefix too long",
			mutate:  func(c *Config) { c.Storage.KeyPrefix = string(make([]byte, 65)) },
			wantErr: "storage.key_prefix must be at most 64",
		},
		{name: "empty key prefix", mutate: func(c *Config) { c.Storage.KeyPrefix = "" }},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Storage.Backend = StorageBackendSQLite },
			wantErr: "storage.sqlite.path is required when backend is sqlite",
		},
		{
			name: "sqlite with path",
			mutate: func(c *Config) {
				c.Storage.Backend = StorageBackendSQLite
				c.Storage.SQLite.Path = ":memory:"
			},
		},
		{
			name: "remote without base url",
			mutate: func(c *Config) {
				c.Storage.Backend = StorageBackendRemote
				c.Storage.Remote.Name = "kv-store"
			},
			wantErr: "storage.remote.base_url is required when backend is remote",
		},
		{
			name: "remote without name",
			mutate: func(c *Config) {
				c.Storage.Backend = StorageBackendRemote
				c.Storage.Remote.BaseURL = "https://kv.internal"
			},
			wantErr: "storage.remote.name is required when backend is remote",
		},
		{
			name: "remote base url not a url",
			mutate: func(c *Config) {
				c.Storage.Remote.BaseURL = "kv internal"
			},
			wantErr: "storage.remote.base_url must be a valid URL",
		},
		{
			name: "remote configured",
			mutate: func(c *Config) {
				c.Storage.Backend = StorageBackendRemote
				c.Storage.Remote = RemoteStorageConfig{BaseURL: "https://kv.internal", Name: "kv-store"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_ReportsEveryFailure(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "invalid"},
		Server: ServerConfig{Port: -1},
	}

	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{"config validation failed", "app.name", "app.version", "app.environment", "server.port", "storage"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "server.port", configKey("Config.server.port"))
	assert.Equal(t, "client.retry.max_attempts", configKey("Config.client.retry.max_attempts"))
	assert.Equal(t, "Config", configKey("Config"))
}
