package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	jww "github.com/spf13/jwalterweatherman"
)

type Config struct {
	Env  string `envconfig:"env" default:"dev"`
	Port string `envconfig:"port" default:"8080"`

	DBHost     string `envconfig:"db_host" default:"localhost"`
	DBUser     string `envconfig:"db_user" default:"postgres"`
	DBPassword string `envconfig:"db_password"`
	DBName     string `envconfig:"db_name" default:"alumni"`
	DBPort     string `envconfig:"db_port" default:"5432"`
	DBSSLMode  string `envconfig:"db_sslmode" default:"disable"`

	RedisAddr     string `envconfig:"redis_addr" default:"localhost:6379"`
	RedisPassword string `envconfig:"redis_password"`
	RedisDB       int    `envconfig:"redis_db" default:"0"`

	JWTSecret      string `envconfig:"jwt_secret"`
	AllowedOrigins string `envconfig:"allowed_origins"`
	CSRFMode       string `envconfig:"csrf_mode" default:"token"`

	MaxMessageLength           int  `envconfig:"max_message_length" default:"4000"`
	RequireConnectionToMessage bool `envconfig:"require_connection_to_message" default:"true"`

	MailgunDomain string `envconfig:"mailgun_domain"`
	MailgunAPIKey string `envconfig:"mailgun_api_key"`
	EmailFrom     string `envconfig:"email_from" default:"Alumni Network <no-reply@alumni.local>"`
	PublicBaseURL string `envconfig:"public_base_url" default:"http://localhost:3000"`

	NotifyInterval    time.Duration `envconfig:"notify_interval" default:"5s"`
	NotifyBaseDelay   time.Duration `envconfig:"notify_base_delay" default:"2s"`
	NotifyMaxAttempts int           `envconfig:"notify_max_attempts" default:"5"`
}

// Load reads an optional .env file and then the ALUMNI_* environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		jww.INFO.Println("No .env file found, using system environment variables")
	}

	c := &Config{}
	if err := envconfig.Process("alumni", c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("ALUMNI_JWT_SECRET is required")
	}
	if c.MaxMessageLength < 1 {
		return fmt.Errorf("ALUMNI_MAX_MESSAGE_LENGTH must be positive, got %d", c.MaxMessageLength)
	}
	switch c.CSRFMode {
	case "token", "origin", "off":
	default:
		return fmt.Errorf("ALUMNI_CSRF_MODE must be token, origin or off, got %q", c.CSRFMode)
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func (c *Config) MailgunEnabled() bool {
	return c.MailgunDomain != "" && c.MailgunAPIKey != ""
}

// ConfigureLogging sets jww thresholds for the environment.
func (c *Config) ConfigureLogging() {
	if c.IsProd() {
		jww.SetStdoutThreshold(jww.LevelInfo)
		return
	}
	jww.SetStdoutThreshold(jww.LevelDebug)
}
