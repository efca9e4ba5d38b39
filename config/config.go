package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Engine   EngineConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
}

type AppConfig struct {
	Port     string
	GinMode  string
	LogLevel string
	SeedFile string
}

type DatabaseConfig struct {
	Driver       string // sqlite, mysql, postgres
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// EngineConfig tunes the order engine
type EngineConfig struct {
	LockTimeout       time.Duration // upper bound for one mutating operation
	LowStockThreshold int
}

type HTTPConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	AllowOrigin    string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// Load reads .env (if present) and then the process environment.
// Keys map to env names by upper-casing and replacing "." with "_" (db.driver -> DB_DRIVER).
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Port:     v.GetString("port"),
			GinMode:  v.GetString("gin.mode"),
			LogLevel: v.GetString("log.level"),
			SeedFile: v.GetString("seed.file"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("db.driver")),
			DSN:          v.GetString("db.dsn"),
			MaxOpenConns: v.GetInt("db.max.open.conns"),
			MaxIdleConns: v.GetInt("db.max.idle.conns"),
		},
		Engine: EngineConfig{
			LockTimeout:       v.GetDuration("engine.lock.timeout"),
			LowStockThreshold: v.GetInt("engine.low.stock.threshold"),
		},
		HTTP: HTTPConfig{
			RateLimitRPS:   v.GetFloat64("rate.limit.rps"),
			RateLimitBurst: v.GetInt("rate.limit.burst"),
			AllowOrigin:    v.GetString("cors.allow.origin"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("seed.file", "drinks.json")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "bar_pos.sqlite?_busy_timeout=3000")
	v.SetDefault("db.max.open.conns", 10)
	v.SetDefault("db.max.idle.conns", 5)
	v.SetDefault("engine.lock.timeout", "3s")
	v.SetDefault("engine.low.stock.threshold", 30)
	v.SetDefault("rate.limit.rps", 50)
	v.SetDefault("rate.limit.burst", 100)
	v.SetDefault("cors.allow.origin", "*")
	v.SetDefault("jwt.ttl", "12h")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.Engine.LockTimeout <= 0 {
		return fmt.Errorf("ENGINE_LOCK_TIMEOUT must be positive")
	}
	if c.Engine.LowStockThreshold < 0 {
		return fmt.Errorf("ENGINE_LOW_STOCK_THRESHOLD must not be negative")
	}
	return nil
}
