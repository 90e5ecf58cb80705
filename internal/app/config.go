package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/Flarenzy/simple-auth-api/internal/logging"
)

type Config struct {
	Port            string
	DSN             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AutoMigrate     bool
	LogLevel        slog.Level

	JWTSecret   string
	TokenTTL    time.Duration
	TokenIssuer string

	// Optional external identity provider.
	JWKSURL    string
	OIDCIssuer string
	Audience   string
}

// LogValue keeps the secret and the DSN (which may embed a password) out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("dsn", "[redacted]"),
		slog.String("jwt_secret", "[redacted]"),
		slog.Duration("token_ttl", c.TokenTTL),
		slog.String("token_issuer", c.TokenIssuer),
		slog.String("jwks_url", c.JWKSURL),
		slog.Bool("auto_migrate", c.AutoMigrate),
		slog.String("log_level", c.LogLevel.String()),
	)
}

// LoadConfig reads the process configuration from the environment.
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:            getenv("PORT"),
		DSN:             getenv("DB_CONN"),
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		AutoMigrate:     true,
		JWTSecret:       getenv("JWT_SECRET"),
		TokenTTL:        time.Hour,
		TokenIssuer:     getenv("JWT_ISSUER"),
		JWKSURL:         getenv("AUTH_JWKS_URL"),
		OIDCIssuer:      getenv("AUTH_OIDC_ISSUER"),
		Audience:        getenv("AUTH_AUDIENCE"),
	}

	if cfg.DSN == "" {
		return Config{}, errors.New("missing required environment variable: DB_CONN")
	}
	if cfg.Port == "" {
		cfg.Port = "4040"
	}

	var err error
	if cfg.LogLevel, err = logging.ParseLevel(getenv("LOG_LEVEL")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if err = parseDuration(getenv, "JWT_EXPIRES_IN", &cfg.TokenTTL); err != nil {
		return Config{}, err
	}
	if err = parseDuration(getenv, "HTTP_READ_TIMEOUT", &cfg.ReadTimeout); err != nil {
		return Config{}, err
	}
	if err = parseDuration(getenv, "HTTP_WRITE_TIMEOUT", &cfg.WriteTimeout); err != nil {
		return Config{}, err
	}
	if v := getenv("DB_AUTO_MIGRATE"); v != "" {
		if cfg.AutoMigrate, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("DB_AUTO_MIGRATE: %w", err)
		}
	}

	return cfg, nil
}

func parseDuration(getenv func(string) string, key string, dst *time.Duration) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive", key)
	}
	*dst = d
	return nil
}
