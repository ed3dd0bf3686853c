package shared

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig is everything activity-server reads from its environment.
type ServerConfig struct {
	AdminToken string `env:"ADMIN_TOKEN,required,notEmpty"`

	Addr        string `env:"ACTIVITY_ADDR" envDefault:":8085"`
	DBPath      string `env:"ACTIVITY_DB_PATH" envDefault:"./data/activity.db"`
	MetricsAddr string `env:"ACTIVITY_METRICS_ADDR"`

	CORSOrigins      []string `env:"ACTIVITY_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	CORSOriginSuffix string   `env:"ACTIVITY_CORS_ORIGIN_SUFFIX"`

	MaxBodyBytes    int64         `env:"ACTIVITY_MAX_BODY_BYTES" envDefault:"2097152"`
	ShutdownTimeout time.Duration `env:"ACTIVITY_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel string `env:"ACTIVITY_LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"ACTIVITY_LOG_JSON" envDefault:"false"`

	OTelEndpoint string `env:"ACTIVITY_OTEL_ENDPOINT"`
}

// ClientConfig is used by activity-admin to reach a running server.
type ClientConfig struct {
	BaseURL    string        `env:"ACTIVITY_BASE_URL" envDefault:"http://localhost:8085"`
	AdminToken string        `env:"ADMIN_TOKEN"`
	Timeout    time.Duration `env:"ACTIVITY_CLIENT_TIMEOUT" envDefault:"20s"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadServerConfig() (*ServerConfig, error) {
	var c ServerConfig
	if err := ParseEnv(&c); err != nil {
		return nil, err
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 2 << 20
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	return &c, nil
}

func LoadClientConfig() (*ClientConfig, error) {
	var c ClientConfig
	if err := ParseEnv(&c); err != nil {
		return nil, err
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	return &c, nil
}
