package configloader

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string   `yaml:"port"`
	ReadTimeout  int      `yaml:"readTimeout"`
	WriteTimeout int      `yaml:"writeTimeout"`
	IdleTimeout  int      `yaml:"idleTimeout"`
	AllowOrigins []string `yaml:"allowOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	Development bool   `yaml:"development"`
}

// RemoteConfig points at the server hosting /config/abi.json and /config/config.json.
type RemoteConfig struct {
	BaseURL              string `yaml:"baseURL"`
	ABIPath              string `yaml:"abiPath"`
	ConfigPath           string `yaml:"configPath"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// WalletConfig describes the JSON-RPC endpoint acting as the wallet provider.
type WalletConfig struct {
	Endpoint             string `yaml:"endpoint"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	PollIntervalMillis   int64  `yaml:"pollIntervalMillis"`
}

// ContractConfig holds contract call settings.
type ContractConfig struct {
	CallTimeoutMillis int64 `yaml:"callTimeoutMillis"`
}

// CacheConfig holds configuration for caching.
type CacheConfig struct {
	DefaultExpirationMinutes int `yaml:"defaultExpirationMinutes"`
	CleanupIntervalMinutes   int `yaml:"cleanupIntervalMinutes"`
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	RateLimit  int `yaml:"rateLimit"`
	BurstLimit int `yaml:"burstLimit"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server       ServerConfig    `yaml:"server"`
	Logging      LoggingConfig   `yaml:"logging"`
	RemoteConfig RemoteConfig    `yaml:"remoteConfig"`
	Wallet       WalletConfig    `yaml:"wallet"`
	Contract     ContractConfig  `yaml:"contract"`
	Cache        CacheConfig     `yaml:"cache"`
	RpcClient    RpcClientConfig `yaml:"rpcClient"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML configuration data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 75
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.RemoteConfig.ABIPath == "" {
		cfg.RemoteConfig.ABIPath = "/config/abi.json"
	}
	if cfg.RemoteConfig.ConfigPath == "" {
		cfg.RemoteConfig.ConfigPath = "/config/config.json"
	}
	if cfg.RemoteConfig.RequestTimeoutMillis <= 0 {
		cfg.RemoteConfig.RequestTimeoutMillis = 10000 // 10 seconds
		logrus.Infof("RemoteConfig.RequestTimeoutMillis not set, defaulting to %d ms", cfg.RemoteConfig.RequestTimeoutMillis)
	}

	if cfg.Wallet.RequestTimeoutMillis <= 0 {
		cfg.Wallet.RequestTimeoutMillis = 60000 // authorization may wait on the user
		logrus.Infof("Wallet.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Wallet.RequestTimeoutMillis)
	}
	if cfg.Wallet.PollIntervalMillis <= 0 {
		cfg.Wallet.PollIntervalMillis = 2000
	}
	if cfg.Contract.CallTimeoutMillis <= 0 {
		cfg.Contract.CallTimeoutMillis = 10000
	}

	if cfg.Cache.DefaultExpirationMinutes <= 0 {
		cfg.Cache.DefaultExpirationMinutes = 60
	}
	if cfg.Cache.CleanupIntervalMinutes <= 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}

	if cfg.RpcClient.RateLimit <= 0 {
		cfg.RpcClient.RateLimit = 10
	}
	if cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = cfg.RpcClient.RateLimit
	}

	// POST /connect blocks on the wallet authorization, so the write timeout must outlast it.
	if minWrite := minWriteTimeoutSeconds(cfg); cfg.Server.WriteTimeout < minWrite {
		logrus.Warnf("Server.WriteTimeout %ds is shorter than a wallet connection may take, raising to %ds",
			cfg.Server.WriteTimeout, minWrite)
		cfg.Server.WriteTimeout = minWrite
	}
}

// minWriteTimeoutSeconds covers one config load plus one wallet request, with a margin.
func minWriteTimeoutSeconds(cfg *Config) int {
	millis := cfg.Wallet.RequestTimeoutMillis + cfg.RemoteConfig.RequestTimeoutMillis
	return int((millis+999)/1000) + 5
}

// Validate checks the values that have no sensible default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RemoteConfig.BaseURL) == "" {
		return fmt.Errorf("remoteConfig.baseURL is required")
	}
	if strings.TrimSpace(c.Wallet.Endpoint) == "" {
		// Not an error: the connection flow reports the missing wallet to the user.
		logrus.Warn("wallet.endpoint is empty, wallet connections will report a missing wallet")
	}
	return nil
}

// RemoteRequestTimeout returns the timeout for config document requests.
func (c *Config) RemoteRequestTimeout() time.Duration {
	return time.Duration(c.RemoteConfig.RequestTimeoutMillis) * time.Millisecond
}

// WalletRequestTimeout returns the timeout applied to each wallet request.
func (c *Config) WalletRequestTimeout() time.Duration {
	return time.Duration(c.Wallet.RequestTimeoutMillis) * time.Millisecond
}

// WalletPollInterval returns how often the provider is polled for account and network changes.
func (c *Config) WalletPollInterval() time.Duration {
	return time.Duration(c.Wallet.PollIntervalMillis) * time.Millisecond
}

// ContractCallTimeout returns the timeout for contract read calls.
func (c *Config) ContractCallTimeout() time.Duration {
	return time.Duration(c.Contract.CallTimeoutMillis) * time.Millisecond
}

// CacheExpiration returns the TTL for cached config documents.
func (c *Config) CacheExpiration() time.Duration {
	return time.Duration(c.Cache.DefaultExpirationMinutes) * time.Minute
}

// CacheCleanupInterval returns the purge interval of the config document cache.
func (c *Config) CacheCleanupInterval() time.Duration {
	return time.Duration(c.Cache.CleanupIntervalMinutes) * time.Minute
}
