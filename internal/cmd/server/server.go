// Package server parses portal command configuration and runs the service.
package server

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/sreedharv/ptrportal/internal/platform/config"
	"github.com/sreedharv/ptrportal/internal/services/portal/app"
)

// envConfig is the environment-variable layer of the command configuration.
type envConfig struct {
	HTTPAddr   string        `env:"PTR_PORTAL_HTTP_ADDR"`
	HealthPort int           `env:"PTR_PORTAL_HEALTH_PORT"`
	DBPath     string        `env:"PTR_PORTAL_DB_PATH"`
	JWTSecret  string        `env:"PTR_PORTAL_JWT_SECRET"`
	TokenTTL   time.Duration `env:"PTR_PORTAL_TOKEN_TTL"`
}

// Config holds portal command configuration.
type Config struct {
	HTTPAddr   string
	HealthPort int
	DBPath     string
	JWTSecret  string
	TokenTTL   time.Duration
}

// ParseConfig parses environment variables and flags into a Config. Flags
// override environment values.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var fromEnv envConfig
	if err := config.ParseEnv(&fromEnv); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:   fromEnv.HTTPAddr,
		HealthPort: fromEnv.HealthPort,
		DBPath:     fromEnv.DBPath,
		JWTSecret:  fromEnv.JWTSecret,
		TokenTTL:   fromEnv.TokenTTL,
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = "localhost:5000"
	}
	if cfg.HealthPort == 0 {
		cfg.HealthPort = 5001
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The portal HTTP server address")
	fs.IntVar(&cfg.HealthPort, "health-port", cfg.HealthPort, "The gRPC health server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the portal SQLite database")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "HMAC secret for session tokens")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Session token lifetime")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("jwt secret is required (set PTR_PORTAL_JWT_SECRET or -jwt-secret)")
	}
	return cfg, nil
}

// Run starts the portal server.
func Run(ctx context.Context, cfg Config) error {
	return app.Run(ctx, app.Config{
		HTTPAddr:   cfg.HTTPAddr,
		HealthPort: cfg.HealthPort,
		DBPath:     cfg.DBPath,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
	})
}
