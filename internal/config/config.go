package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultHTTPAddr           = ":8080"
	defaultDatabaseURL        = "taskmanager.db"
	defaultJWTAccessTTL       = "30m"
	defaultJWTRefreshTTL      = "720h"
	defaultBcryptCost         = 10
	defaultCookieSecure       = false
	defaultCookieSameSite     = "Lax"
	defaultCookiePath         = "/api/auth"
	defaultTokenStore         = TokenStoreDatabase
	defaultRedisURL           = "redis://localhost:6379/0"
	defaultLogLevel           = "info"
	defaultJWTAccessSecret    = "change-me-access-secret"
	defaultJWTRefreshSecret   = "change-me-refresh-secret"
	defaultRefreshTokenPepper = "change-me-refresh-pepper"
)

// Token registry backends.
const (
	TokenStoreDatabase = "database"
	TokenStoreRedis    = "redis"
)

type Config struct {
	AppEnv             string
	HTTPAddr           string
	DatabaseURL        string
	JWTAccessSecret    string
	JWTRefreshSecret   string
	JWTAccessTTL       time.Duration
	JWTRefreshTTL      time.Duration
	RefreshTokenPepper string
	BcryptCost         int
	CookieSecure       bool
	CookieSameSite     string
	CookiePath         string
	CORSAllowedOrigins []string
	TokenStore         string
	RedisURL           string
	LogLevel           string
}

// Load reads configuration from the environment and, when CONFIG_PATH is
// set, from that file. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("CONFIG_PATH")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("HTTP_ADDR", defaultHTTPAddr)
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("JWT_ACCESS_SECRET", defaultJWTAccessSecret)
	v.SetDefault("JWT_REFRESH_SECRET", defaultJWTRefreshSecret)
	v.SetDefault("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	v.SetDefault("JWT_REFRESH_TTL", defaultJWTRefreshTTL)
	v.SetDefault("REFRESH_TOKEN_PEPPER", defaultRefreshTokenPepper)
	v.SetDefault("BCRYPT_COST", defaultBcryptCost)
	v.SetDefault("COOKIE_SECURE", defaultCookieSecure)
	v.SetDefault("COOKIE_SAMESITE", defaultCookieSameSite)
	v.SetDefault("COOKIE_PATH", defaultCookiePath)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("TOKEN_STORE", defaultTokenStore)
	v.SetDefault("REDIS_URL", defaultRedisURL)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:             strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		HTTPAddr:           strings.TrimSpace(v.GetString("HTTP_ADDR")),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		JWTAccessSecret:    strings.TrimSpace(v.GetString("JWT_ACCESS_SECRET")),
		JWTRefreshSecret:   strings.TrimSpace(v.GetString("JWT_REFRESH_SECRET")),
		RefreshTokenPepper: strings.TrimSpace(v.GetString("REFRESH_TOKEN_PEPPER")),
		BcryptCost:         v.GetInt("BCRYPT_COST"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		CookieSameSite:     strings.TrimSpace(v.GetString("COOKIE_SAMESITE")),
		CookiePath:         strings.TrimSpace(v.GetString("COOKIE_PATH")),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		TokenStore:         strings.ToLower(strings.TrimSpace(v.GetString("TOKEN_STORE"))),
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
	}

	var err error
	cfg.JWTAccessTTL, err = parseDuration(v, "JWT_ACCESS_TTL")
	if err != nil {
		return nil, err
	}
	cfg.JWTRefreshTTL, err = parseDuration(v, "JWT_REFRESH_TTL")
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.JWTRefreshTTL <= 0 {
		return fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	if cfg.JWTRefreshTTL <= cfg.JWTAccessTTL {
		return fmt.Errorf("JWT_REFRESH_TTL must be longer than JWT_ACCESS_TTL")
	}
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must not be empty")
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if cfg.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	sameSite := strings.ToLower(cfg.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}
	switch cfg.TokenStore {
	case TokenStoreDatabase:
	case TokenStoreRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set when TOKEN_STORE=redis")
		}
	default:
		return fmt.Errorf("TOKEN_STORE must be one of: database, redis")
	}

	if cfg.IsProduction() {
		if isEmptyOrDefault(cfg.JWTAccessSecret, defaultJWTAccessSecret) {
			return fmt.Errorf("in prod/release JWT_ACCESS_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.JWTRefreshSecret, defaultJWTRefreshSecret) {
			return fmt.Errorf("in prod/release JWT_REFRESH_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.RefreshTokenPepper, defaultRefreshTokenPepper) {
			return fmt.Errorf("in prod/release REFRESH_TOKEN_PEPPER must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

// IsProduction reports whether APP_ENV names a production-like environment.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

// SameSite converts CookieSameSite to its net/http value.
func (c *Config) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDuration(v *viper.Viper, name string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(name))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
