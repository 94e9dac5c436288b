// Package config loads service configuration from the environment, optionally
// seeded from a .env file.
package config

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mintroai/payment-service/libs/go/client/coingecko"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/helpers"
	"github.com/mintroai/payment-service/libs/go/interfaces"
	"github.com/mintroai/payment-service/libs/go/logger"
)

// Environment variable names
const (
	EnvStage               = "STAGE"
	EnvAPIPort             = "API_PORT"
	EnvLogLevel            = "LOG_LEVEL"
	EnvSignerPrivateKey    = "SIGNER_PRIVATE_KEY"
	EnvSignerPrivateKeyARN = "SIGNER_PRIVATE_KEY_ARN"
	EnvAllowInsecureSigner = "ALLOW_INSECURE_SIGNER"
	EnvCoinGeckoBaseURL    = "COINGECKO_BASE_URL"
	EnvCoinGeckoAPIKey     = "COINGECKO_API_KEY"
	EnvPriceCacheTTL       = "PRICE_CACHE_TTL"
	EnvPriceFetchTimeout   = "PRICE_FETCH_TIMEOUT"
	EnvAuthorizationTTL    = "AUTHORIZATION_TTL"
	EnvRateLimitRPS        = "RATE_LIMIT_RPS"
	EnvRateLimitBurst      = "RATE_LIMIT_BURST"
	EnvCORSAllowedOrigins  = "CORS_ALLOWED_ORIGINS"
	EnvTrustedProxies      = "TRUSTED_PROXIES"
)

const (
	defaultPort           = "8000"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 100
	defaultRateLimitBurst = 200
)

// Config holds the service configuration
type Config struct {
	Stage    string
	Port     string
	LogLevel string

	SignerPrivateKey    string
	SignerKeyARN        string
	AllowInsecureSigner bool

	CoinGeckoBaseURL string
	CoinGeckoAPIKey  string

	PriceCacheTTL     time.Duration
	PriceFetchTimeout time.Duration
	AuthorizationTTL  time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	CORSAllowedOrigins []string

	// TrustedProxies are the IPs or CIDRs whose X-Forwarded-For is honored.
	// Empty means the peer address is the client address.
	TrustedProxies []string
}

// Load reads the given .env files (".env" when none are named), then the
// process environment. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment
func FromEnv() (*Config, error) {
	stage := getEnv(EnvStage, helpers.StageLocal)
	if !helpers.IsValidStage(stage) {
		return nil, fmt.Errorf("invalid %s %q: must be one of %s, %s, %s",
			EnvStage, stage, helpers.StageProd, helpers.StageDev, helpers.StageLocal)
	}

	cfg := &Config{
		Stage:            stage,
		Port:             getEnv(EnvAPIPort, defaultPort),
		LogLevel:         getEnv(EnvLogLevel, defaultLogLevel),
		SignerPrivateKey: strings.TrimSpace(os.Getenv(EnvSignerPrivateKey)),
		SignerKeyARN:     strings.TrimSpace(os.Getenv(EnvSignerPrivateKeyARN)),
		CoinGeckoBaseURL: getEnv(EnvCoinGeckoBaseURL, coingecko.DefaultBaseURL),
		CoinGeckoAPIKey:  os.Getenv(EnvCoinGeckoAPIKey),
	}

	var err error
	if cfg.AllowInsecureSigner, err = getBool(EnvAllowInsecureSigner, stage == constants.LocalEnvironment); err != nil {
		return nil, err
	}
	if cfg.AllowInsecureSigner && stage == constants.ProdEnvironment {
		return nil, fmt.Errorf("%s cannot be enabled in %s", EnvAllowInsecureSigner, stage)
	}
	if cfg.PriceCacheTTL, err = getDuration(EnvPriceCacheTTL, constants.DefaultPriceCacheTTL); err != nil {
		return nil, err
	}
	if cfg.PriceFetchTimeout, err = getDuration(EnvPriceFetchTimeout, constants.DefaultPriceFetchTimeout); err != nil {
		return nil, err
	}
	if cfg.AuthorizationTTL, err = getDuration(EnvAuthorizationTTL, constants.DefaultAuthorizationTTL); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getPositiveInt(EnvRateLimitRPS, defaultRateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getPositiveInt(EnvRateLimitBurst, defaultRateLimitBurst); err != nil {
		return nil, err
	}
	cfg.CORSAllowedOrigins = getList(EnvCORSAllowedOrigins)
	for _, proxy := range getList(EnvTrustedProxies) {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return nil, fmt.Errorf("invalid %s entry %q: not an IP or CIDR", EnvTrustedProxies, proxy)
			}
		}
		cfg.TrustedProxies = append(cfg.TrustedProxies, proxy)
	}

	return cfg, nil
}

// LoggerConfig returns the logger settings for this configuration
func (c *Config) LoggerConfig() logger.LoggerConfig {
	return logger.LoggerConfig{
		Level:       c.LogLevel,
		Stage:       c.Stage,
		EnableJSON:  c.Stage == constants.ProdEnvironment,
		EnableColor: c.Stage != constants.ProdEnvironment,
	}
}

// ResolveSignerKey returns the signing key. When SIGNER_PRIVATE_KEY_ARN is set the
// key is read from the secret store, otherwise SIGNER_PRIVATE_KEY is used as is
// and may be empty.
func (c *Config) ResolveSignerKey(ctx context.Context, secrets interfaces.SecretFetcher) (string, error) {
	if c.SignerKeyARN == "" {
		return c.SignerPrivateKey, nil
	}
	key, err := secrets.GetSecretString(ctx, EnvSignerPrivateKeyARN, EnvSignerPrivateKey)
	if err != nil {
		return "", fmt.Errorf("failed to resolve signer key: %w", err)
	}
	return strings.TrimSpace(key), nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getList(key string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(key), ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return value, nil
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, raw)
	}
	return value, nil
}
