package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	Log        LogConfig       `mapstructure:"log"`
	HTTP       HTTPConfig      `mapstructure:"http"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Phone      PhoneConfig     `mapstructure:"phone"`
	Notifier   NotifierConfig  `mapstructure:"notifier"`
	Webhooks   []WebhookConfig `mapstructure:"webhooks"`
}

// ---- Leaf structs ----

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	GroupID        string   `mapstructure:"group_id"`
	Topic          string   `mapstructure:"topic"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

type PhoneConfig struct {
	HomeDialCode    string `mapstructure:"home_dial_code"`
	MaskFallback    string `mapstructure:"mask_fallback"` // empty: derived from the home country
	RevealDigits    int    `mapstructure:"reveal_digits"`
	StrictCountry   bool   `mapstructure:"strict_country"`
	WhatsAppBaseURL string `mapstructure:"whatsapp_base_url"`
}

type NotifierConfig struct {
	WorkerCount int           `mapstructure:"worker_count"`
	BatchSize   int           `mapstructure:"batch_size"`
	BatchWait   time.Duration `mapstructure:"batch_wait"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type BreakerConfig struct {
	FailThreshold int `mapstructure:"fail_threshold" yaml:"fail_threshold"`
	OpenForMs     int `mapstructure:"open_for_ms"    yaml:"open_for_ms"`
}

type WebhookConfig struct {
	Name      string        `mapstructure:"name"`
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"base_url"`
	Path      string        `mapstructure:"path"`
	TimeoutMs int           `mapstructure:"timeout_ms"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

var ErrInvalidConfig = errors.New("invalid config")

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (PHONEENG_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (PHONEENG_*), e.g. PHONEENG_PHONE_HOME_DIAL_CODE
	v.SetEnvPrefix("PHONEENG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings the engine cannot run without.
func (c Config) Validate() error {
	if _, ok := phone.DefaultRegistry().Lookup(c.Phone.HomeDialCode); !ok {
		return fmt.Errorf("phone.home_dial_code %q is not a registered dial code: %w", c.Phone.HomeDialCode, ErrInvalidConfig)
	}
	if c.Phone.RevealDigits <= 0 {
		return fmt.Errorf("phone.reveal_digits must be positive, got %d: %w", c.Phone.RevealDigits, ErrInvalidConfig)
	}
	for _, w := range c.Webhooks {
		if w.Enabled && strings.TrimSpace(w.BaseURL) == "" {
			return fmt.Errorf("webhook %q enabled without base_url: %w", w.Name, ErrInvalidConfig)
		}
	}
	return nil
}

// Engine builds the phone engine described by the phone section.
func (c Config) Engine() (*phone.Engine, error) {
	opts := []phone.Option{
		phone.WithMaskFallback(c.Phone.MaskFallback),
		phone.WithRevealDigits(c.Phone.RevealDigits),
		phone.WithStrictCountry(c.Phone.StrictCountry),
	}
	if c.Phone.HomeDialCode == phone.HomeDialCode {
		opts = append(opts, phone.WithCarriers(phone.LibyanCarriers()))
	}
	return phone.NewEngine(phone.DefaultRegistry(), c.Phone.HomeDialCode, opts...)
}
