package config

import (
	"sync"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const envPrefix = "LMS"

var (
	cfg  atomic.Pointer[Config]
	once sync.Once
)

// Init loads config.yaml and applies LMS_* environment overrides.
func Init() {
	once.Do(func() {
		c, err := Load(".", "./config")
		if err != nil {
			panic(err)
		}
		cfg.Store(c)
	})
}

// Get returns the process configuration, loading it on first use.
func Get() *Config {
	Init()
	return cfg.Load()
}

// Set replaces the process configuration. Used by tests.
func Set(c *Config) {
	once.Do(func() {})
	cfg.Store(c)
}

// Load reads config.yaml from the first matching path. A missing file is
// not an error: defaults and environment variables still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("prefix", "api")
	v.SetDefault("mode", string(ModeDebug))
	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("jwt.access_expire", 86400)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("attendance.timezone", "Asia/Tokyo")
	v.SetDefault("attendance.start_time", "09:00")
	v.SetDefault("attendance.end_time", "18:00")
	v.SetDefault("attendance.cache_ttl_seconds", 300)
	v.SetDefault("attendance.default_locale", "ja")
	v.SetDefault("rate_limit.rps", 1)
	v.SetDefault("rate_limit.burst", 5)
}
