package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration. Values come from defaults, then an
// optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	AppPort  string `yaml:"app_port"`
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	StoreDriver string `yaml:"store_driver"` // "dynamo" or "sqlite"
	SQLitePath  string `yaml:"sqlite_path"`

	AWSRegion      string       `yaml:"aws_region"`
	AWSEndpointURL string       `yaml:"aws_endpoint_url"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string       `yaml:"aws_access_key_id"`
	AWSSecretKey   string       `yaml:"aws_secret_access_key"`
	DynamoTables   DynamoTables `yaml:"dynamo_tables"`

	JWTPrivateKeyPath string        `yaml:"jwt_private_key_path"`
	JWTPublicKeyPath  string        `yaml:"jwt_public_key_path"`
	JWTExpiry         time.Duration `yaml:"jwt_expiry"`

	SMTPHost     string `yaml:"smtp_host"` // empty disables the email channel
	SMTPPort     string `yaml:"smtp_port"`
	SMTPFrom     string `yaml:"smtp_from"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`

	SNSRegion   string `yaml:"sns_region"`
	SNSTopicARN string `yaml:"sns_topic_arn"` // empty disables mobile push fan-out

	NATSURL          string `yaml:"nats_url"` // empty disables the alert subscriber
	NATSAlertSubject string `yaml:"nats_alert_subject"`
	NATSQueueGroup   string `yaml:"nats_queue_group"`

	StreamWriteTimeout time.Duration `yaml:"stream_write_timeout"`
	StreamRatePerSec   float64       `yaml:"stream_rate_per_sec"`
	StreamRateBurst    int           `yaml:"stream_rate_burst"`

	AllowedOrigins []string `yaml:"allowed_origins"` // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Notifications string `yaml:"notifications"`
	Preferences   string `yaml:"preferences"`
	Counters      string `yaml:"counters"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		AppPort:     "3000",
		AppEnv:      "development",
		LogLevel:    "info",
		StoreDriver: "dynamo",
		SQLitePath:  "notifications.db",
		AWSRegion:   "us-east-1",
		DynamoTables: DynamoTables{
			Notifications: "notifications",
			Preferences:   "notification_preferences",
			Counters:      "counters",
		},
		JWTPrivateKeyPath:  "./private_key.pem",
		JWTPublicKeyPath:   "./public_key.pem",
		JWTExpiry:          7 * 24 * time.Hour,
		SMTPPort:           "1025",
		SMTPFrom:           "noreply@example.com",
		SNSRegion:          "us-east-1",
		NATSAlertSubject:   "finance.alerts",
		NATSQueueGroup:     "notifications",
		StreamWriteTimeout: 10 * time.Second,
		StreamRatePerSec:   1,
		StreamRateBurst:    5,
		AllowedOrigins:     []string{"*"},
	}
}

// Load reads all configuration. A missing or malformed CONFIG_FILE is an error;
// everything else falls back to defaults.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "dynamo", "sqlite":
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StreamRateBurst < 1 {
		return fmt.Errorf("config: STREAM_RATE_BURST must be >= 1")
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.StoreDriver = getEnv("STORE_DRIVER", c.StoreDriver)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.AWSEndpointURL = getEnv("AWS_ENDPOINT_URL", c.AWSEndpointURL)
	c.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", c.AWSAccessKeyID)
	c.AWSSecretKey = getEnv("AWS_SECRET_ACCESS_KEY", c.AWSSecretKey)
	c.DynamoTables.Notifications = getEnv("DYNAMO_TABLE_NOTIFICATIONS", c.DynamoTables.Notifications)
	c.DynamoTables.Preferences = getEnv("DYNAMO_TABLE_PREFERENCES", c.DynamoTables.Preferences)
	c.DynamoTables.Counters = getEnv("DYNAMO_TABLE_COUNTERS", c.DynamoTables.Counters)
	c.JWTPrivateKeyPath = getEnv("JWT_PRIVATE_KEY_PATH", c.JWTPrivateKeyPath)
	c.JWTPublicKeyPath = getEnv("JWT_PUBLIC_KEY_PATH", c.JWTPublicKeyPath)
	c.JWTExpiry = getEnvDuration("JWT_EXPIRY", c.JWTExpiry)
	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getEnv("SMTP_PORT", c.SMTPPort)
	c.SMTPFrom = getEnv("SMTP_FROM", c.SMTPFrom)
	c.SMTPUsername = getEnv("SMTP_USERNAME", c.SMTPUsername)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)
	c.SNSRegion = getEnv("SNS_REGION", c.SNSRegion)
	c.SNSTopicARN = getEnv("SNS_TOPIC_ARN", c.SNSTopicARN)
	c.NATSURL = getEnv("NATS_URL", c.NATSURL)
	c.NATSAlertSubject = getEnv("NATS_ALERT_SUBJECT", c.NATSAlertSubject)
	c.NATSQueueGroup = getEnv("NATS_QUEUE_GROUP", c.NATSQueueGroup)
	c.StreamWriteTimeout = getEnvDuration("STREAM_WRITE_TIMEOUT", c.StreamWriteTimeout)
	c.StreamRatePerSec = getEnvFloat("STREAM_RATE_PER_SEC", c.StreamRatePerSec)
	c.StreamRateBurst = getEnvInt("STREAM_RATE_BURST", c.StreamRateBurst)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("15s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
