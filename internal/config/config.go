/*-------------------------------------------------------------------------
 *
 * config.go
 *    Configuration management for NeuronFlow
 *
 * Loads configuration from environment variables with optional YAML file
 * override, and resolves the executor settings (timeout, retries,
 * screenshot policy) once so no component reads ambient settings at
 * execution time.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/config/config.go
 *
 *-------------------------------------------------------------------------
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

/* Config holds application configuration */
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Executor  ExecutorConfig  `yaml:"executor"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

/* DatabaseConfig holds database configuration */
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

/* ServerConfig holds HTTP server configuration */
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

/* LoggingConfig holds logging configuration */
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

/* ExecutorConfig holds flow executor settings.
 *
 * TimeoutSeconds is clamped to [10, 300] and RetryAttempts to [0, 5]
 * during Normalize; out-of-range values fall back to the defaults. */
type ExecutorConfig struct {
	TimeoutSeconds      int    `yaml:"timeout_seconds"`
	RetryAttempts       int    `yaml:"retry_attempts"`
	ScreenshotOnFailure bool   `yaml:"screenshot_on_failure"`
	ScreenshotOnSuccess bool   `yaml:"screenshot_on_success"`
	ScreenshotDir       string `yaml:"screenshot_dir"`
	UserAgent           string `yaml:"user_agent"`
}

/* SchedulerConfig holds periodic run-all sweep configuration */
type SchedulerConfig struct {
	Enabled       bool   `yaml:"enabled"`
	CronSpec      string `yaml:"cron_spec"`
	BudgetSeconds int    `yaml:"budget_seconds"`
}

const (
	DefaultTimeoutSeconds = 30
	MinTimeoutSeconds     = 10
	MaxTimeoutSeconds     = 300

	DefaultRetryAttempts = 2
	MaxRetryAttempts     = 5

	DefaultUserAgent = "NeuronFlow/1.0 (Flow Validation Bot)"
)

/* DefaultConfig returns configuration with built-in defaults */
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "neuronflow",
			Password:        "neuronflow",
			Database:        "neuronflow",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8090,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Executor: ExecutorConfig{
			TimeoutSeconds:      DefaultTimeoutSeconds,
			RetryAttempts:       DefaultRetryAttempts,
			ScreenshotOnFailure: true,
			ScreenshotOnSuccess: false,
			ScreenshotDir:       "./screenshots",
			UserAgent:           DefaultUserAgent,
		},
		Scheduler: SchedulerConfig{
			Enabled:       false,
			CronSpec:      "@hourly",
			BudgetSeconds: 240,
		},
	}
}

/* LoadFromEnv overrides configuration from environment variables */
func LoadFromEnv(cfg *Config) {
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)
	cfg.Database.ConnMaxIdleTime = getEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.Database.ConnMaxIdleTime)

	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	cfg.Executor.TimeoutSeconds = getEnvInt("EXECUTOR_TIMEOUT_SECONDS", cfg.Executor.TimeoutSeconds)
	cfg.Executor.RetryAttempts = getEnvInt("EXECUTOR_RETRY_ATTEMPTS", cfg.Executor.RetryAttempts)
	cfg.Executor.ScreenshotOnFailure = getEnvBool("EXECUTOR_SCREENSHOT_ON_FAILURE", cfg.Executor.ScreenshotOnFailure)
	cfg.Executor.ScreenshotOnSuccess = getEnvBool("EXECUTOR_SCREENSHOT_ON_SUCCESS", cfg.Executor.ScreenshotOnSuccess)
	cfg.Executor.ScreenshotDir = getEnv("EXECUTOR_SCREENSHOT_DIR", cfg.Executor.ScreenshotDir)
	cfg.Executor.UserAgent = getEnv("EXECUTOR_USER_AGENT", cfg.Executor.UserAgent)

	cfg.Scheduler.Enabled = getEnvBool("SCHEDULER_ENABLED", cfg.Scheduler.Enabled)
	cfg.Scheduler.CronSpec = getEnv("SCHEDULER_CRON_SPEC", cfg.Scheduler.CronSpec)
	cfg.Scheduler.BudgetSeconds = getEnvInt("SCHEDULER_BUDGET_SECONDS", cfg.Scheduler.BudgetSeconds)
}

/* LoadConfig loads configuration from a YAML file on top of defaults */
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Normalize()
	return cfg, nil
}

/* Normalize clamps executor settings into their supported ranges */
func (c *Config) Normalize() {
	if c.Executor.TimeoutSeconds < MinTimeoutSeconds || c.Executor.TimeoutSeconds > MaxTimeoutSeconds {
		c.Executor.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Executor.RetryAttempts < 0 || c.Executor.RetryAttempts > MaxRetryAttempts {
		c.Executor.RetryAttempts = DefaultRetryAttempts
	}
	if c.Executor.UserAgent == "" {
		c.Executor.UserAgent = DefaultUserAgent
	}
	if c.Scheduler.BudgetSeconds <= 0 {
		c.Scheduler.BudgetSeconds = 240
	}
}

/* DSN returns the database connection string */
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
