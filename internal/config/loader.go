package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "basenames.yaml"

var hexAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "BASENAMES_PORT")
	setString(&cfg.Server.CORSOrigin, "BASENAMES_CORS_ORIGIN")
	setBool(&cfg.Server.SecureCookies, "BASENAMES_SECURE_COOKIES")
	setString(&cfg.Logging.Level, "BASENAMES_LOG_LEVEL")
	setString(&cfg.Logging.Service, "BASENAMES_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "BASENAMES_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "BASENAMES_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "BASENAMES_BREAKER_TIMEOUT")
	setFloat64(&cfg.Rate.RequestsPerSecond, "BASENAMES_RATE_RPS")
	setInt(&cfg.Rate.Burst, "BASENAMES_RATE_BURST")

	// Name service
	setString(&cfg.NameService.URL, "BASENAMES_API_URL")
	setDuration(&cfg.NameService.Timeout, "BASENAMES_API_TIMEOUT")

	// Chain
	setString(&cfg.Chain.RPCURL, "BASE_RPC_URL")
	setInt64(&cfg.Chain.ChainID, "BASENAMES_CHAIN_ID")
	setString(&cfg.Chain.RegistrarController, "BASENAMES_REGISTRAR_CONTROLLER")
	setString(&cfg.Chain.Registry, "BASENAMES_REGISTRY")
	setString(&cfg.Chain.WalletKey, "BASENAMES_WALLET_KEY")
	setDuration(&cfg.Chain.CallTimeout, "BASENAMES_CALL_TIMEOUT")
	setInt(&cfg.Chain.MaxConcurrentCalls, "BASENAMES_RPC_MAX_CONCURRENCY")

	// Cache
	setInt64(&cfg.Cache.L1MaxSizeMB, "BASENAMES_CACHE_L1_SIZE_MB")
	setString(&cfg.Cache.L2Bucket, "BASENAMES_CACHE_L2_BUCKET")
	setDuration(&cfg.Cache.L2TTL, "BASENAMES_CACHE_L2_TTL")
	setDuration(&cfg.Cache.ResultTTL, "BASENAMES_CACHE_RESULT_TTL")

	// Infrastructure
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "BASENAMES_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "BASENAMES_PG_MIN_CONNS")
	setString(&cfg.NATS.URL, "NATS_URL")

	// MCP
	setBool(&cfg.MCP.Enabled, "BASENAMES_MCP_ENABLED")
	setString(&cfg.MCP.Addr, "BASENAMES_MCP_ADDR")
	setString(&cfg.MCP.APIKey, "BASENAMES_MCP_API_KEY")

	// OpenTelemetry
	setBool(&cfg.OTEL.Enabled, "BASENAMES_OTEL_ENABLED")
	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
	setBool(&cfg.OTEL.Insecure, "BASENAMES_OTEL_INSECURE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Chain.RPCURL == "" {
		return errors.New("chain.rpc_url is required")
	}
	if !hexAddress.MatchString(cfg.Chain.RegistrarController) {
		return errors.New("chain.registrar_controller must be a hex address")
	}
	if !hexAddress.MatchString(cfg.Chain.Registry) {
		return errors.New("chain.registry must be a hex address")
	}
	if cfg.Chain.ChainID < 1 {
		return errors.New("chain.chain_id must be >= 1")
	}
	if cfg.Chain.MaxConcurrentCalls < 1 {
		return errors.New("chain.max_concurrent_calls must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.Cache.L1MaxSizeMB < 1 {
		return errors.New("cache.l1_max_size_mb must be >= 1")
	}
	if cfg.Postgres.DSN != "" && cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.MCP.Enabled && cfg.MCP.Addr == "" {
		return errors.New("mcp.addr is required when mcp is enabled")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
