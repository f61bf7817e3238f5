package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/t0pa/plansync/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// ScheduleConfig fixes the scheduling grid shape. SlotMinutes must be 60 or
// 30 and is shared by grid generation, drag bounds and presets so slot
// identifiers always align.
type ScheduleConfig struct {
	StartHour   int `mapstructure:"start_hour"`
	SlotMinutes int `mapstructure:"slot_minutes"`
	Weeks       int `mapstructure:"weeks"`
}

// StorageConfig points at an S3-compatible bucket for invite exports.
// Optional; an empty bucket disables uploads.
type StorageConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Load reads .env (when present) and the environment into a Config and
// installs it as the process configuration. An explicit env file path may
// be passed; default is ./.env.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetEnvPrefix("PLANSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "plansync")
	v.SetDefault("database.ssl_mode", constants.DatabaseSSLMode)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("schedule.start_hour", constants.ScheduleStartHour)
	v.SetDefault("schedule.slot_minutes", constants.ScheduleSlotMinutes)
	v.SetDefault("schedule.weeks", constants.ScheduleWeeks)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (PLANSYNC_JWT_SECRET)")
	}
	if cfg.Schedule.SlotMinutes != 60 && cfg.Schedule.SlotMinutes != 30 {
		return nil, fmt.Errorf("schedule.slot_minutes must be 60 or 30, got %d", cfg.Schedule.SlotMinutes)
	}

	mu.Lock()
	instance = &cfg
	mu.Unlock()

	return &cfg, nil
}

// Get returns the process configuration. Panics when Load has not run.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: Load must be called before Get")
	}
	return cfg
}

// GetSafe returns the process configuration without panicking.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil, false
	}
	return instance, true
}

// Set installs a configuration directly. Intended for tests.
func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
