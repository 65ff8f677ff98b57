package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL"`

	PGHost     string `envconfig:"PG_HOST" default:"localhost"`
	PGPort     string `envconfig:"PG_PORT" default:"5432"`
	PGUser     string `envconfig:"PG_USER" default:"gabber"`
	PGPassword string `envconfig:"PG_PASSWORD"`
	PGDB       string `envconfig:"PG_DB" default:"gabber"`

	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"true"`

	// Empty RedisHost keeps token markers in process memory
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	SecretKey       string        `envconfig:"SECRET_KEY" required:"true"`
	ConsentSalt     string        `envconfig:"CONSENT_SALT" default:"consent"`
	InviteSalt      string        `envconfig:"INVITE_SALT" default:"invite"`
	ResetSalt       string        `envconfig:"RESET_SALT" default:"reset"`
	VerifySalt      string        `envconfig:"VERIFY_SALT" default:"verify"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"1h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`
	ConsentTokenTTL time.Duration `envconfig:"CONSENT_TOKEN_TTL" default:"720h"`
	InviteTokenTTL  time.Duration `envconfig:"INVITE_TOKEN_TTL" default:"168h"`
	ResetTokenTTL   time.Duration `envconfig:"RESET_TOKEN_TTL" default:"1h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"12"`

	S3Bucket        string        `envconfig:"S3_BUCKET" default:"gabber"`
	S3Region        string        `envconfig:"S3_REGION" default:"eu-west-1"`
	S3BaseEndpoint  string        `envconfig:"S3_BASE_ENDPOINT"`
	S3AccessKey     string        `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string        `envconfig:"S3_SECRET_KEY"`
	RecordingURLTTL time.Duration `envconfig:"RECORDING_URL_TTL" default:"1h"`

	// Empty MailRelayURL logs notifications instead of sending them
	MailRelayURL    string `envconfig:"MAIL_RELAY_URL"`
	MailRelayAPIKey string `envconfig:"MAIL_RELAY_API_KEY"`
	PushRelayURL    string `envconfig:"PUSH_RELAY_URL"`
	NotifyWorkers   int    `envconfig:"NOTIFY_WORKERS" default:"8"`

	WebClientURL   string   `envconfig:"WEB_CLIENT_URL" default:"http://localhost:8081"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"https://*,http://localhost:8081"`

	AuthRateLimit float64 `envconfig:"AUTH_RATE_LIMIT" default:"1"`
	AuthRateBurst int     `envconfig:"AUTH_RATE_BURST" default:"5"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.WebClientURL = strings.TrimRight(cfg.WebClientURL, "/")
	return &cfg, nil
}

// PostgresDSN builds the connection string shared by the GORM and sqlx handles
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDB)
}

// RedisAddr returns host:port, or "" when Redis is not configured
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
