package config

import (
	"fmt"
	"time"

	"contactform/pkg/config"
)

type Config struct {
	Server   config.ServerConfig   `yaml:"server"`
	Storage  config.StorageConfig  `yaml:"storage"`
	DB       config.DBConfig       `yaml:"db"`
	MQ       config.MQConfig       `yaml:"mq"`
	Redis    config.RedisConfig    `yaml:"redis"`
	Throttle config.ThrottleConfig `yaml:"throttle"`
	CORS     config.CORSConfig     `yaml:"cors"`
	OTel     config.OTelConfig     `yaml:"otel"`
	Log      config.LogConfig      `yaml:"log"`
}

// Load reads config/<env>.yaml on top of base.yaml, then applies environment overrides.
func Load() (*Config, error) {
	// 使用统一配置中心
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	var cfg Config
	if err := config.Load(env, configDir, &cfg); err != nil {
		return nil, err
	}

	// 环境变量覆盖（优先级最高）
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideStorageFromEnv(&cfg.Storage)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideOTelFromEnv(&cfg.OTel)
	config.OverrideLogFromEnv(&cfg.Log)

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":5000"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Throttle.MaxAttempts == 0 {
		c.Throttle.MaxAttempts = 10
	}
	if c.Throttle.Window == 0 {
		c.Throttle.Window = 15 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.DB.Host == "" || c.DB.Name == "" {
			return fmt.Errorf("db.host and db.name are required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.CSVPath == "" {
		return fmt.Errorf("storage.csv_path is required")
	}
	if c.Storage.LogPath == "" {
		return fmt.Errorf("storage.log_path is required")
	}
	if c.Throttle.MaxAttempts < 0 {
		return fmt.Errorf("throttle.max_attempts must not be negative")
	}
	return nil
}
