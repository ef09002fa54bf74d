package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string `mapstructure:"PORT"`
	FrontendURL          string `mapstructure:"FRONTEND_URL"`
	AllowedOriginsCSV    string `mapstructure:"ALLOWED_ORIGINS"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	GameTokenTTLMin      int    `mapstructure:"GAME_TOKEN_TTL_MINUTES"`
	AIDepth              int    `mapstructure:"AI_DEPTH"`
	AIParallel           bool   `mapstructure:"AI_PARALLEL"`
	AINearWinWeight      int    `mapstructure:"AI_NEAR_WIN_WEIGHT"`
	AICenterWeight       int    `mapstructure:"AI_CENTER_WEIGHT"`
	AISeed               int64  `mapstructure:"AI_SEED"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RecommendationTTLMin int    `mapstructure:"RECOMMENDATION_TTL_MINUTES"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns       int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns       int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMin int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	SessionIdleMin       int    `mapstructure:"SESSION_IDLE_MINUTES"`
	CleanupIntervalMin   int    `mapstructure:"CLEANUP_INTERVAL_MINUTES"`
	LogLevel             string `mapstructure:"LOG_LEVEL"`
}

const DefaultJWTSecret = "your-secret-key-change-this-in-production"

var defaults = map[string]any{
	"PORT":                         "8080",
	"FRONTEND_URL":                 "http://localhost:5173",
	"ALLOWED_ORIGINS":              "",
	"JWT_SECRET":                   DefaultJWTSecret,
	"GAME_TOKEN_TTL_MINUTES":       24 * 60,
	"AI_DEPTH":                     4,
	"AI_PARALLEL":                  false,
	"AI_NEAR_WIN_WEIGHT":           20,
	"AI_CENTER_WEIGHT":             2,
	"AI_SEED":                      0,
	"REDIS_URL":                    "",
	"REDIS_PASSWORD":               "",
	"RECOMMENDATION_TTL_MINUTES":   30,
	"DATABASE_URL":                 "",
	"DB_MAX_OPEN_CONNS":            25,
	"DB_MAX_IDLE_CONNS":            25,
	"DB_CONN_MAX_LIFETIME_MINUTES": 5,
	"SESSION_IDLE_MINUTES":         60,
	"CLEANUP_INTERVAL_MINUTES":     10,
	"LOG_LEVEL":                    "info",
}

// LoadConfig reads the environment, optionally layered over a config file.
// An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("PORT must not be empty")
	case c.AIDepth < 1:
		return fmt.Errorf("AI_DEPTH must be at least 1, got %d", c.AIDepth)
	case c.AINearWinWeight < 0 || c.AICenterWeight < 0:
		return fmt.Errorf("AI weights must not be negative")
	case c.SessionIdleMin < 1 || c.CleanupIntervalMin < 1:
		return fmt.Errorf("SESSION_IDLE_MINUTES and CLEANUP_INTERVAL_MINUTES must be positive")
	case c.GameTokenTTLMin < 1:
		return fmt.Errorf("GAME_TOKEN_TTL_MINUTES must be positive")
	}
	return nil
}

// AllowedOrigins is the frontend, local development and any extra CSV entries.
func (c *Config) AllowedOrigins() []string {
	origins := []string{c.FrontendURL, "http://localhost:5173"}
	for _, origin := range strings.Split(c.AllowedOriginsCSV, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) GameTokenTTL() time.Duration {
	return time.Duration(c.GameTokenTTLMin) * time.Minute
}

func (c *Config) RecommendationTTL() time.Duration {
	return time.Duration(c.RecommendationTTLMin) * time.Minute
}

func (c *Config) DBConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeMin) * time.Minute
}

func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMin) * time.Minute
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMin) * time.Minute
}
