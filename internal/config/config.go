// Package config loads process configuration from defaults, an optional
// YAML file, and STUDYLOOP_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Postgres connection settings.
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_sslmode"`

	// JWTSecret signs learner session tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// RedisAddr enables the mastery cache when non-empty.
	RedisAddr string `koanf:"redis_addr"`

	// QuizWeight and QAWeight control score fusion. They favor the
	// objective quiz signal by default and are tunable per deployment.
	QuizWeight float64 `koanf:"quiz_weight"`
	QAWeight   float64 `koanf:"qa_weight"`

	// Alpha is the EMA smoothing coefficient in (0,1].
	Alpha float64 `koanf:"alpha"`

	// LowThreshold and MidThreshold split mastery into weak, developing,
	// and strong bands for the adaptive policy.
	LowThreshold float64 `koanf:"low_threshold"`
	MidThreshold float64 `koanf:"mid_threshold"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Addr:         ":8080",
		DBHost:       "localhost",
		DBPort:       "5432",
		DBUser:       "studyloop",
		DBPassword:   "studyloop",
		DBName:       "studyloop",
		DBSSLMode:    "disable",
		JWTSecret:    "studyloop-staging-signing-key-2026",
		QuizWeight:   0.7,
		QAWeight:     0.3,
		Alpha:        0.6,
		LowThreshold: 0.4,
		MidThreshold: 0.7,
	}
}

// Load layers configuration sources, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by STUDYLOOP_CONFIG, if set
//  3. environment variables (STUDYLOOP_ADDR, STUDYLOOP_ALPHA, ...)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("STUDYLOOP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	envProvider := env.Provider("STUDYLOOP_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STUDYLOOP_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects parameter combinations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	if c.QuizWeight < 0 || c.QAWeight < 0 {
		return fmt.Errorf("config: fusion weights must be nonnegative")
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("config: alpha %v outside (0,1]", c.Alpha)
	}
	if c.LowThreshold >= c.MidThreshold {
		return fmt.Errorf("config: low_threshold %v must be below mid_threshold %v",
			c.LowThreshold, c.MidThreshold)
	}
	return nil
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
