package config

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the terminal and its development backend
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	OrderService OrderServiceConfig `mapstructure:"order_service"`
	Email        EmailConfig        `mapstructure:"email"`
	Store        StoreConfig        `mapstructure:"store"`
	Numbering    NumberingConfig    `mapstructure:"numbering"`
	Workflow     WorkflowConfig     `mapstructure:"workflow"`
	Log          LogConfig          `mapstructure:"log"`
	Backend      BackendConfig      `mapstructure:"backend"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// OrderServiceConfig points the terminal at the remote order service.
// Paths may contain an {id} placeholder.
type OrderServiceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Paths   PathsConfig   `mapstructure:"paths"`
}

type PathsConfig struct {
	Orders      string `mapstructure:"orders"`
	Order       string `mapstructure:"order"`
	OrderStatus string `mapstructure:"order_status"`
	OrderCancel string `mapstructure:"order_cancel"`
}

type EmailConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	ServiceID  string        `mapstructure:"service_id"`
	TemplateID string        `mapstructure:"template_id"`
	PublicKey  string        `mapstructure:"public_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type StoreConfig struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	Contact string `mapstructure:"contact"`
}

// NumberingConfig selects where the sequential display numbers are kept
type NumberingConfig struct {
	Backend       string        `mapstructure:"backend"`
	FilePath      string        `mapstructure:"file_path"`
	ResetHour     int           `mapstructure:"reset_hour"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	Redis         RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type WorkflowConfig struct {
	NotificationTTL time.Duration `mapstructure:"notification_ttl"`
	TakeoutDelay    time.Duration `mapstructure:"takeout_delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type BackendConfig struct {
	Port             int     `mapstructure:"port"`
	ChaosFailureRate float64 `mapstructure:"chaos_failure_rate"`
}

// Numbering backends
const (
	NumberingMemory = "memory"
	NumberingFile   = "file"
	NumberingRedis  = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8090)

	v.SetDefault("order_service.base_url", "http://localhost:8000")
	v.SetDefault("order_service.timeout", 5*time.Second)
	v.SetDefault("order_service.paths.orders", "/api/orders")
	v.SetDefault("order_service.paths.order", "/api/orders/{id}")
	v.SetDefault("order_service.paths.order_status", "/api/orders/{id}/status")
	v.SetDefault("order_service.paths.order_cancel", "/api/orders/{id}/cancel")

	v.SetDefault("email.endpoint", "https://api.emailjs.com")
	v.SetDefault("email.service_id", "")
	v.SetDefault("email.template_id", "")
	v.SetDefault("email.public_key", "")
	v.SetDefault("email.timeout", 10*time.Second)

	v.SetDefault("store.name", "Cardiac Delights")
	v.SetDefault("store.address", "")
	v.SetDefault("store.contact", "")

	v.SetDefault("numbering.backend", NumberingMemory)
	v.SetDefault("numbering.file_path", "order-numbers.json")
	v.SetDefault("numbering.reset_hour", 7)
	v.SetDefault("numbering.check_interval", 30*time.Minute)
	v.SetDefault("numbering.redis.addr", "localhost:6379")
	v.SetDefault("numbering.redis.password", "")
	v.SetDefault("numbering.redis.db", 0)
	v.SetDefault("numbering.redis.key_prefix", "pos:")

	v.SetDefault("workflow.notification_ttl", 3*time.Second)
	v.SetDefault("workflow.takeout_delay", time.Second)

	v.SetDefault("log.level", "info")

	v.SetDefault("backend.port", 8000)
	v.SetDefault("backend.chaos_failure_rate", 0.0)
}

// Load reads configuration from an optional YAML file and POS_* environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects values the terminal cannot run with
func (c *Config) Validate() error {
	if c.OrderService.BaseURL == "" {
		return fmt.Errorf("order_service.base_url is required")
	}
	if c.Numbering.ResetHour < 0 || c.Numbering.ResetHour > 23 {
		return fmt.Errorf("numbering.reset_hour must be between 0 and 23, got %d", c.Numbering.ResetHour)
	}
	switch c.Numbering.Backend {
	case NumberingMemory, NumberingFile, NumberingRedis:
	default:
		return fmt.Errorf("unknown numbering.backend: %s", c.Numbering.Backend)
	}
	if c.Backend.ChaosFailureRate < 0 || c.Backend.ChaosFailureRate > 1 {
		return fmt.Errorf("backend.chaos_failure_rate must be between 0 and 1")
	}
	return nil
}

// Addr returns the listen address for the terminal API
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ConfigureLogging applies the log settings to the standard logrus logger
func ConfigureLogging(cfg LogConfig) error {
	log.SetFormatter(&log.JSONFormatter{})

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)
	return nil
}
