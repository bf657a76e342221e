package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingStripeKey = errors.New("STRIPE_SECRET_KEY is required")

// Config is built once at startup and passed to every component that needs it.
type Config struct {
	Port       string
	ServerName string
	LogLevel   string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeAPIURL        string
	Currency            string
	DefaultSuccessURL   string
	DefaultCancelURL    string

	NotifierURL   string
	NotifyTimeout time.Duration
	NotifyDedup   bool

	DatabasePath string
	KafkaBrokers string
	KafkaTopic   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "4242")
	v.SetDefault("server_name", "Stripe Payment Server")
	v.SetDefault("log_level", "info")
	v.SetDefault("stripe_secret_key", "")
	v.SetDefault("stripe_webhook_secret", "")
	v.SetDefault("stripe_api_url", "")
	v.SetDefault("currency", "myr")
	v.SetDefault("default_success_url", "http://localhost:4242/success")
	v.SetDefault("default_cancel_url", "http://localhost:4242/cancel")
	v.SetDefault("flutter_server_url", "http://localhost:8081")
	v.SetDefault("notify_timeout", "30s")
	v.SetDefault("notify_dedup", false)
	v.SetDefault("database_path", "")
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", "payment.completed")
}

// Load reads configuration from the environment, optionally layered over a
// dotenv or YAML file. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:                v.GetString("port"),
		ServerName:          v.GetString("server_name"),
		LogLevel:            v.GetString("log_level"),
		StripeSecretKey:     strings.TrimSpace(v.GetString("stripe_secret_key")),
		StripeWebhookSecret: strings.TrimSpace(v.GetString("stripe_webhook_secret")),
		StripeAPIURL:        strings.TrimSpace(v.GetString("stripe_api_url")),
		Currency:            strings.ToLower(v.GetString("currency")),
		DefaultSuccessURL:   v.GetString("default_success_url"),
		DefaultCancelURL:    v.GetString("default_cancel_url"),
		NotifierURL:         strings.TrimRight(v.GetString("flutter_server_url"), "/"),
		NotifyTimeout:       v.GetDuration("notify_timeout"),
		NotifyDedup:         v.GetBool("notify_dedup"),
		DatabasePath:        v.GetString("database_path"),
		KafkaBrokers:        v.GetString("kafka_brokers"),
		KafkaTopic:          v.GetString("kafka_topic"),
	}

	return cfg, nil
}

// RequireStripe reports ErrMissingStripeKey when the processor credential is
// absent. Only commands that talk to Stripe need it.
func (c *Config) RequireStripe() error {
	if c.StripeSecretKey == "" {
		return ErrMissingStripeKey
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
