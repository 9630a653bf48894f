// Package config provides hierarchical configuration loading for basenames.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the basenames service.
type Config struct {
	Server      Server      `yaml:"server"`
	Logging     Logging     `yaml:"logging"`
	Breaker     Breaker     `yaml:"breaker"`
	Rate        Rate        `yaml:"rate"`
	NameService NameService `yaml:"nameservice"`
	Chain       Chain       `yaml:"chain"`
	Cache       Cache       `yaml:"cache"`
	Postgres    Postgres    `yaml:"postgres"`
	NATS        NATS        `yaml:"nats"`
	MCP         MCP         `yaml:"mcp"`
	OTEL        OTEL        `yaml:"otel"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port          string `yaml:"port"`
	CORSOrigin    string `yaml:"cors_origin"`
	SecureCookies bool   `yaml:"secure_cookies"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Breaker holds circuit breaker configuration for outbound calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Rate holds rate limiter configuration.
type Rate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// NameService holds the hosted name-service API configuration.
// An empty URL disables the API stage of the availability cascade.
type NameService struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Chain holds Base JSON-RPC and contract configuration.
type Chain struct {
	RPCURL              string        `yaml:"rpc_url"`
	ChainID             int64         `yaml:"chain_id"`
	RegistrarController string        `yaml:"registrar_controller"`
	Registry            string        `yaml:"registry"`
	WalletKey           string        `yaml:"wallet_key"` // hex private key; empty = no wallet
	CallTimeout         time.Duration `yaml:"call_timeout"`
	MaxConcurrentCalls  int           `yaml:"max_concurrent_calls"`
}

// Cache holds key-value cache configuration.
type Cache struct {
	L1MaxSizeMB int64         `yaml:"l1_max_size_mb"`
	L2Bucket    string        `yaml:"l2_bucket"`
	L2TTL       time.Duration `yaml:"l2_ttl"`    // 0 = entries never expire
	ResultTTL   time.Duration `yaml:"result_ttl"` // availability result cache; 0 disables
}

// Postgres holds PostgreSQL connection configuration. An empty DSN disables
// registration history.
type Postgres struct {
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	HealthCheck     time.Duration `yaml:"health_check"`
}

// NATS holds NATS JetStream configuration. An empty URL disables events and
// the L2 cache.
type NATS struct {
	URL string `yaml:"url"`
}

// MCP holds the MCP tool server configuration.
type MCP struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	APIKey  string `yaml:"api_key"`
}

// OTEL holds OpenTelemetry exporter configuration.
type OTEL struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// Base mainnet contract addresses.
const (
	BaseRegistrarController = "0x4cCb0BB02FCABA27e82a56646E81d8c5bC4119a5"
	BaseRegistry            = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"
	BaseChainID             = 8453
)

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
		},
		Logging: Logging{
			Level:   "info",
			Service: "basenames",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Rate: Rate{
			RequestsPerSecond: 10,
			Burst:             100,
		},
		NameService: NameService{
			URL:     "https://api.basename.app",
			Timeout: 5 * time.Second,
		},
		Chain: Chain{
			RPCURL:              "https://mainnet.base.org",
			ChainID:             BaseChainID,
			RegistrarController: BaseRegistrarController,
			Registry:            BaseRegistry,
			CallTimeout:         10 * time.Second,
			MaxConcurrentCalls:  8,
		},
		Cache: Cache{
			L1MaxSizeMB: 32,
			L2Bucket:    "BASENAMES_KV",
			ResultTTL:   15 * time.Second,
		},
		Postgres: Postgres{
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 10 * time.Minute,
			HealthCheck:     time.Minute,
		},
		MCP: MCP{
			Addr: ":3001",
		},
		OTEL: OTEL{
			Endpoint:    "localhost:4317",
			ServiceName: "basenames",
			Insecure:    true,
		},
	}
}
