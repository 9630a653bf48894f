package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Chain.RPCURL != "https://mainnet.base.org" {
		t.Errorf("unexpected rpc url %q", cfg.Chain.RPCURL)
	}
	if cfg.Chain.ChainID != 8453 {
		t.Errorf("expected chain id 8453, got %d", cfg.Chain.ChainID)
	}
	if cfg.Chain.RegistrarController != BaseRegistrarController {
		t.Errorf("unexpected registrar controller %q", cfg.Chain.RegistrarController)
	}
	if cfg.Chain.Registry != BaseRegistry {
		t.Errorf("unexpected registry %q", cfg.Chain.Registry)
	}
	if cfg.NameService.URL != "https://api.basename.app" {
		t.Errorf("unexpected name service url %q", cfg.NameService.URL)
	}
	if cfg.Postgres.DSN != "" {
		t.Errorf("expected empty DSN, got %q", cfg.Postgres.DSN)
	}
	if cfg.NATS.URL != "" {
		t.Errorf("expected empty NATS URL, got %q", cfg.NATS.URL)
	}
	if cfg.Chain.WalletKey != "" {
		t.Error("default config must not carry a wallet key")
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")
	content := `
server:
  port: "9090"
logging:
  level: "debug"
chain:
  rpc_url: "http://localhost:8545"
cache:
  result_ttl: "1m"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Chain.RPCURL != "http://localhost:8545" {
		t.Errorf("expected local rpc url, got %q", cfg.Chain.RPCURL)
	}
	if cfg.Cache.ResultTTL != time.Minute {
		t.Errorf("expected result ttl 1m, got %v", cfg.Cache.ResultTTL)
	}
	// Untouched sections keep defaults.
	if cfg.Chain.ChainID != 8453 {
		t.Errorf("expected default chain id, got %d", cfg.Chain.ChainID)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	if err := loadYAML(&cfg, "/nonexistent/basenames.yaml"); err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("BASENAMES_PORT", "7070")
	t.Setenv("BASENAMES_LOG_LEVEL", "warn")
	t.Setenv("BASE_RPC_URL", "http://rpc.test")
	t.Setenv("BASENAMES_CHAIN_ID", "84532")
	t.Setenv("BASENAMES_SECURE_COOKIES", "true")
	t.Setenv("BASENAMES_CACHE_RESULT_TTL", "5s")
	t.Setenv("DATABASE_URL", "postgres://localhost/basenames")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %q", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %q", cfg.Logging.Level)
	}
	if cfg.Chain.RPCURL != "http://rpc.test" {
		t.Errorf("expected rpc url override, got %q", cfg.Chain.RPCURL)
	}
	if cfg.Chain.ChainID != 84532 {
		t.Errorf("expected chain id 84532, got %d", cfg.Chain.ChainID)
	}
	if !cfg.Server.SecureCookies {
		t.Error("expected secure cookies enabled")
	}
	if cfg.Cache.ResultTTL != 5*time.Second {
		t.Errorf("expected result ttl 5s, got %v", cfg.Cache.ResultTTL)
	}
	if cfg.Postgres.DSN != "postgres://localhost/basenames" {
		t.Errorf("expected DSN override, got %q", cfg.Postgres.DSN)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected NATS override, got %q", cfg.NATS.URL)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "empty rpc url",
			modify: func(c *Config) { c.Chain.RPCURL = "" },
			errMsg: "chain.rpc_url is required",
		},
		{
			name:   "bad registrar address",
			modify: func(c *Config) { c.Chain.RegistrarController = "0x1234" },
			errMsg: "chain.registrar_controller must be a hex address",
		},
		{
			name:   "bad registry address",
			modify: func(c *Config) { c.Chain.Registry = "registry" },
			errMsg: "chain.registry must be a hex address",
		},
		{
			name:   "zero chain id",
			modify: func(c *Config) { c.Chain.ChainID = 0 },
			errMsg: "chain.chain_id must be >= 1",
		},
		{
			name:   "zero breaker failures",
			modify: func(c *Config) { c.Breaker.MaxFailures = 0 },
			errMsg: "breaker.max_failures must be >= 1",
		},
		{
			name:   "zero rpc concurrency",
			modify: func(c *Config) { c.Chain.MaxConcurrentCalls = 0 },
			errMsg: "chain.max_concurrent_calls must be >= 1",
		},
		{
			name:   "zero rate burst",
			modify: func(c *Config) { c.Rate.Burst = 0 },
			errMsg: "rate.burst must be >= 1",
		},
		{
			name:   "zero l1 size",
			modify: func(c *Config) { c.Cache.L1MaxSizeMB = 0 },
			errMsg: "cache.l1_max_size_mb must be >= 1",
		},
		{
			name: "zero max_conns with dsn",
			modify: func(c *Config) {
				c.Postgres.DSN = "postgres://localhost/basenames"
				c.Postgres.MaxConns = 0
			},
			errMsg: "postgres.max_conns must be >= 1",
		},
		{
			name: "mcp enabled without addr",
			modify: func(c *Config) {
				c.MCP.Enabled = true
				c.MCP.Addr = ""
			},
			errMsg: "mcp.addr is required when mcp is enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.errMsg)
			}
			if err.Error() != tt.errMsg {
				t.Errorf("expected %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestValidateMaxConnsIgnoredWithoutDSN(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.MaxConns = 0
	if err := validate(&cfg); err != nil {
		t.Errorf("max_conns should not matter without a DSN, got %v", err)
	}
}
