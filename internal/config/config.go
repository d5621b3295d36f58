package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver string
	DBDSN    string

	ServerPort string
	GinMode    string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	JWTSecret     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminUsername     string
	AdminPassword     string
	SeedDemoUsers     bool
	RegistrationRoles string
}

const minSecretLen = 32

// Load reads .env, the process environment and an optional CONFIG_FILE.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ADMIN_USERNAME", "admin@stockdesk.local")
	v.SetDefault("ADMIN_PASSWORD", "Admin123!")
	v.SetDefault("SEED_DEMO_USERS", true)
	v.SetDefault("REGISTRATION_ROLES", "assistant,cashier")

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:             v.GetString("DB_DSN"),
		ServerPort:        v.GetString("SERVER_PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		SeedDemoUsers:     v.GetBool("SEED_DEMO_USERS"),
		RegistrationRoles: v.GetString("REGISTRATION_ROLES"),
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = cfg.SessionSecret
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is not set"))
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is not set"))
	} else if len(c.SessionSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLen))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}
