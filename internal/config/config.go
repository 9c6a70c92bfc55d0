package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Automation AutomationConfig `mapstructure:"automation"`
	Email      EmailConfig      `mapstructure:"email"`
	SMS        SMSConfig        `mapstructure:"sms"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Realtime   RealtimeConfig   `mapstructure:"realtime"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
	AutoMigrate       bool          `mapstructure:"auto_migrate"`
	MigrationsPath    string        `mapstructure:"migrations_path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`

	// StatementTimeout bounds every query issued by a pooled connection
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// DSN returns a postgres URL with the credentials escaped
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig controls the optional rotating log file
type LogFileConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Pattern      string        `mapstructure:"pattern"`
	LinkName     string        `mapstructure:"link_name"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

// SchedulerConfig drives the two scan cadences
type SchedulerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	FastInterval time.Duration `mapstructure:"fast_interval"`
	SlowInterval time.Duration `mapstructure:"slow_interval"`
	Timezone     string        `mapstructure:"timezone"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
}

// Location resolves the configured timezone, falling back to the process local zone
func (c SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type AutomationConfig struct {
	ActionTimeout        time.Duration `mapstructure:"action_timeout"`
	LedgerTTL            time.Duration `mapstructure:"ledger_ttl"`
	InventoryDedupWindow time.Duration `mapstructure:"inventory_dedup_window"`
	PendingFormAge       time.Duration `mapstructure:"pending_form_age"`
}

type EmailConfig struct {
	Provider string       `mapstructure:"provider"`
	From     string       `mapstructure:"from"`
	Resend   ResendConfig `mapstructure:"resend"`
	SMTP     SMTPConfig   `mapstructure:"smtp"`
}

type ResendConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SMSConfig struct {
	Twilio TwilioConfig `mapstructure:"twilio"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
}

type TelegramConfig struct {
	Enabled        bool             `mapstructure:"enabled"`
	BotToken       string           `mapstructure:"bot_token"`
	DefaultChatID  int64            `mapstructure:"default_chat_id"`
	WorkspaceChats map[string]int64 `mapstructure:"workspace_chats"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type RealtimeConfig struct {
	RedisBridge bool   `mapstructure:"redis_bridge"`
	Channel     string `mapstructure:"channel"`
	SendBuffer  int    `mapstructure:"send_buffer"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults and env vars only
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "60s")
	v.SetDefault("server.auto_migrate", false)
	v.SetDefault("server.migrations_path", "file://migrations")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "careops")
	v.SetDefault("database.database", "careops")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.statement_timeout", "10s")

	// Redis
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Auth
	v.SetDefault("auth.issuer", "careops")
	v.SetDefault("auth.access_token_ttl", "15m")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.pattern", "./logs/careops.%Y%m%d.log")
	v.SetDefault("logging.file.link_name", "./logs/careops.log")
	v.SetDefault("logging.file.max_age", "168h")
	v.SetDefault("logging.file.rotation_time", "24h")

	// Scheduler
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.fast_interval", "15m")
	v.SetDefault("scheduler.slow_interval", "1h")
	v.SetDefault("scheduler.timezone", "Local")
	v.SetDefault("scheduler.lock_ttl", "10m")

	// Automation
	v.SetDefault("automation.action_timeout", "30s")
	v.SetDefault("automation.ledger_ttl", "720h")
	v.SetDefault("automation.inventory_dedup_window", "24h")
	v.SetDefault("automation.pending_form_age", "24h")

	// Email
	v.SetDefault("email.provider", "resend")
	v.SetDefault("email.from", "CareOps <notifications@careops.app>")
	v.SetDefault("email.resend.base_url", "https://api.resend.com")
	v.SetDefault("email.smtp.port", 587)

	// Kafka
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "careops.domain-events")
	v.SetDefault("kafka.group_id", "careops-automation")

	// Realtime
	v.SetDefault("realtime.redis_bridge", false)
	v.SetDefault("realtime.channel", "careops:alerts")
	v.SetDefault("realtime.send_buffer", 256)

	// Rate limiting
	v.SetDefault("rate_limit.requests_per_minute", 120)
	v.SetDefault("rate_limit.burst", 20)
}

func bindEnvVars(v *viper.Viper) {
	// Database
	v.BindEnv("database.host", "POSTGRES_HOST")
	v.BindEnv("database.password", "POSTGRES_PASSWORD")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	// Channels
	v.BindEnv("email.resend.api_key", "RESEND_API_KEY")
	v.BindEnv("email.smtp.password", "SMTP_PASSWORD")
	v.BindEnv("sms.twilio.account_sid", "TWILIO_ACCOUNT_SID")
	v.BindEnv("sms.twilio.auth_token", "TWILIO_AUTH_TOKEN")
	v.BindEnv("sms.twilio.from_number", "TWILIO_FROM_NUMBER")
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")

	// Kafka
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
}
