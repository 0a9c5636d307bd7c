package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the minter service configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Ethereum     EthereumConfig     `yaml:"ethereum"`
	Pinning      PinningConfig      `yaml:"pinning"`
	Confirmation ConfirmationConfig `yaml:"confirmation"`
	ChainState   ChainStateConfig   `yaml:"chain_state"`
	Mint         MintConfig         `yaml:"mint"`
	Auth         AuthConfig         `yaml:"auth"`
	Monitoring   MonitoringConfig   `yaml:"monitoring"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"110s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains database connection settings.
// When disabled, attempts are kept in memory.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" default:"localhost" validate:"required_if=Enabled true"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"nft_minter" validate:"required_if=Enabled true"`
	SSLMode  string `yaml:"ssl_mode" default:"disable" validate:"oneof=disable require verify-ca verify-full"`
}

// EthereumConfig contains chain connection and signing settings
type EthereumConfig struct {
	RPCURL             string `yaml:"rpc_url" validate:"required,url"`
	ChainID            int64  `yaml:"chain_id" validate:"required,gt=0"`
	CollectionContract string `yaml:"collection_contract" validate:"required,eth_addr"`
	PrivateKey         string `yaml:"private_key" validate:"required"`
	GasLimit           uint64 `yaml:"gas_limit" default:"500000"`
	// MaxGasPriceGwei caps the suggested gas price, e.g. "50" or "0.5". Empty means no cap.
	MaxGasPriceGwei string `yaml:"max_gas_price_gwei"`
}

// MaxGasPriceWei returns the gas price cap in wei, nil when no cap is configured.
func (c *EthereumConfig) MaxGasPriceWei() (*big.Int, error) {
	if c.MaxGasPriceGwei == "" {
		return nil, nil
	}
	gwei, err := decimal.NewFromString(c.MaxGasPriceGwei)
	if err != nil {
		return nil, fmt.Errorf("invalid max_gas_price_gwei %q: %w", c.MaxGasPriceGwei, err)
	}
	if !gwei.IsPositive() {
		return nil, fmt.Errorf("max_gas_price_gwei must be positive")
	}
	return gwei.Shift(9).BigInt(), nil
}

// PrivateKeyHex returns the signing key without a 0x prefix.
func (c *EthereumConfig) PrivateKeyHex() string {
	return strings.TrimPrefix(strings.TrimPrefix(c.PrivateKey, "0x"), "0X")
}

// PinningConfig contains the IPFS pinning service settings.
// Either the api key pair or a JWT must be set.
type PinningConfig struct {
	APIURL        string        `yaml:"api_url" default:"https://api.pinata.cloud" validate:"required,url"`
	GatewayURL    string        `yaml:"gateway_url" default:"https://gateway.pinata.cloud" validate:"required,url"`
	APIKey        string        `yaml:"api_key" validate:"required_without=JWT"`
	SecretAPIKey  string        `yaml:"secret_api_key" validate:"required_with=APIKey"`
	JWT           string        `yaml:"jwt"`
	Timeout       time.Duration `yaml:"timeout" default:"60s"`
	MaxAssetBytes int64         `yaml:"max_asset_bytes" default:"104857600" validate:"gt=0"`
}

// ConfirmationConfig contains the confirmation tracking policy
type ConfirmationConfig struct {
	Required     uint64        `yaml:"required" default:"2" validate:"gte=1"`
	PollInterval time.Duration `yaml:"poll_interval" default:"4s"`
	// MaxRequestsPerSecond bounds receipt/head queries across all tracked transactions.
	MaxRequestsPerSecond float64 `yaml:"max_requests_per_second" default:"5" validate:"gt=0"`
	// Timeout bounds the wait; zero waits until the chain answers.
	Timeout time.Duration `yaml:"timeout"`
}

// ChainStateConfig controls the on-chain snapshot refresh
type ChainStateConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" default:"1m"`
	LoadTimeout     time.Duration `yaml:"load_timeout" default:"15s"`
}

// MintConfig contains workflow settings
type MintConfig struct {
	CollectionLabel string `yaml:"collection_label" default:"Wine collection"`
	DefaultSymbol   string `yaml:"default_symbol" default:"WINE"`
}

// AuthConfig contains operator authentication settings
type AuthConfig struct {
	// MessagePrefix is the fixed prefix of the signed X-Message header: "<prefix>:<unix seconds>".
	MessagePrefix   string        `yaml:"message_prefix" default:"nft-minter"`
	SignatureMaxAge time.Duration `yaml:"signature_max_age" default:"5m"`
	JWKS            JWKSConfig    `yaml:"jwks"`
}

// JWKSConfig enables bearer token authentication
type JWKSConfig struct {
	URL    string `yaml:"url" validate:"omitempty,url"`
	Issuer string `yaml:"issuer"`
}

// MonitoringConfig contains monitoring settings
type MonitoringConfig struct {
	Enabled     bool `yaml:"enabled"`
	MetricsPort int  `yaml:"metrics_port" default:"9090"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from a YAML file. ${VAR} references are expanded from the environment.
func Load(configPath string) (*Config, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes, defaults and validates configuration bytes.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.Ethereum.MaxGasPriceWei(); err != nil {
		return err
	}
	if c.Monitoring.Enabled && c.Monitoring.MetricsPort == c.Server.Port {
		return fmt.Errorf("monitoring.metrics_port must differ from server.port")
	}
	return nil
}

// GetConnectionString returns a libpq style connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
