package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/viper"
)

// Драйверы локального хранилища
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

type Config struct {
	APIBaseURL    string        `mapstructure:"API_BASE_URL"`
	HTTPAddr      string        `mapstructure:"HTTP_ADDR"`
	HTTPTimeout   time.Duration `mapstructure:"HTTP_TIMEOUT"`
	StorageDriver string        `mapstructure:"STORAGE_DRIVER"`
	StoragePath   string        `mapstructure:"STORAGE_PATH"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RedisPrefix   string        `mapstructure:"REDIS_PREFIX"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	LogPretty     bool          `mapstructure:"LOG_PRETTY"`
}

var defaults = map[string]any{
	"API_BASE_URL":   "http://localhost:5000/api",
	"HTTP_ADDR":      ":9091",
	"HTTP_TIMEOUT":   "0s",
	"STORAGE_DRIVER": StorageMemory,
	"STORAGE_PATH":   "./data/storage.json",
	"REDIS_ADDR":     "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"REDIS_PREFIX":   "pharmacy_plus",
	"LOG_LEVEL":      "info",
	"LOG_PRETTY":     false,
}

// Load читает envFile, если он есть, переменные окружения имеют приоритет.
// Пустой envFile означает только окружение.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "read %s", envFile)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat %s", envFile)
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	cf.StorageDriver = strings.ToLower(strings.TrimSpace(cf.StorageDriver))
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory, StorageRedis:
	case StorageFile:
		if c.StoragePath == "" {
			return errors.New("STORAGE_PATH is required for file storage")
		}
	default:
		return errors.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.HTTPTimeout < 0 {
		return errors.New("HTTP_TIMEOUT must not be negative")
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	return nil
}
