package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string `mapstructure:"service_name"`
	Port        string `mapstructure:"port"`
	LogLevel    string `mapstructure:"log_level"`
	DatabaseURL string `mapstructure:"database_url"`
	RedisURL    string `mapstructure:"redis_url"`
	NatsURL     string `mapstructure:"nats_url"`

	Store      StoreConfig      `mapstructure:"store"`
	History    HistoryConfig    `mapstructure:"history"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Nats       NatsConfig       `mapstructure:"nats"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	QR         QRConfig         `mapstructure:"qr"`
	Intent     IntentConfig     `mapstructure:"intent"`
}

type StoreConfig struct {
	// Backend is one of memory, redis or postgres.
	Backend   string        `mapstructure:"backend"`
	RecordTTL time.Duration `mapstructure:"record_ttl"`
}

type HistoryConfig struct {
	// Backend is one of memory or postgres.
	Backend  string        `mapstructure:"backend"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type NatsConfig struct {
	Subject string `mapstructure:"subject"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type ProviderConfig struct {
	// Name is fake or midtrans.
	Name              string `mapstructure:"name"`
	MidtransServerKey string `mapstructure:"midtrans_server_key"`
	Production        bool   `mapstructure:"production"`
}

type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

type SettlementConfig struct {
	Delay      time.Duration `mapstructure:"delay"`
	MaxPending int           `mapstructure:"max_pending"`
	// AllowManualTrigger exposes POST /payments/complete-payment/{id}. It
	// defaults to true only with the fake provider.
	AllowManualTrigger bool `mapstructure:"-"`
}

type QRConfig struct {
	Size int `mapstructure:"size"`
}

type IntentConfig struct {
	DefaultCurrency string `mapstructure:"default_currency"`
}

// manualTriggerKey has no default: unset means "follow the provider".
const manualTriggerKey = "settlement.allow_manual_trigger"

var defaults = map[string]any{
	"service_name":                 "checkout-payments",
	"port":                         "8082",
	"log_level":                    "info",
	"store.backend":                "memory",
	"store.record_ttl":             "0s",
	"history.backend":              "memory",
	"history.cache_ttl":            "30s",
	"kafka.topic":                  "payment.state.changed",
	"nats.subject":                 "payments.events",
	"auth.jwt_secret":              "dev-secret-please-change",
	"auth.token_ttl":               "24h",
	"provider.name":                "fake",
	"provider.production":          false,
	"settlement.delay":             "5s",
	"settlement.max_pending":       1024,
	"qr.size":                      256,
	"intent.default_currency":      "usd",
	"database_url":                 "",
	"redis_url":                    "",
	"nats_url":                     "",
	"kafka.brokers":                "",
	"telemetry.otlp_endpoint":      "",
	"provider.midtrans_server_key": "",
	"webhook.secret":               "",
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. Nested keys map to
// environment variables with dots replaced by underscores (store.backend -> STORE_BACKEND).
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// JAEGER_ENDPOINT is still honoured for existing deployments.
	if cfg.Telemetry.OTLPEndpoint == "" {
		cfg.Telemetry.OTLPEndpoint = v.GetString("jaeger_endpoint")
	}
	if v.IsSet(manualTriggerKey) {
		cfg.Settlement.AllowManualTrigger = v.GetBool(manualTriggerKey)
	} else {
		cfg.Settlement.AllowManualTrigger = cfg.Provider.Name == "fake"
	}
	if cfg.Webhook.Secret == "" {
		cfg.Webhook.Secret = cfg.Provider.MidtransServerKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("store.backend=redis requires redis_url")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("store.backend=postgres requires database_url")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}

	switch c.History.Backend {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("history.backend=postgres requires database_url")
		}
	default:
		return fmt.Errorf("unknown history.backend %q", c.History.Backend)
	}

	switch c.Provider.Name {
	case "fake":
	case "midtrans":
		if c.Provider.MidtransServerKey == "" {
			return fmt.Errorf("provider.name=midtrans requires provider.midtrans_server_key")
		}
	default:
		return fmt.Errorf("unknown provider.name %q", c.Provider.Name)
	}

	if c.Settlement.Delay < 0 {
		return fmt.Errorf("settlement.delay must not be negative")
	}
	return nil
}
