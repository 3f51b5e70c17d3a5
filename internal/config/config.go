// Package config loads application configuration from environment
// variables. A .env file, when present, is read by the entry point before
// Load is called.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable.
type Config struct {
	Env          string        `envconfig:"APP_ENV" default:"development"`  // development | test | production
	Port         string        `envconfig:"PORT" default:"5000"`            // HTTP port to listen on
	DatabaseURL  string        `envconfig:"DATABASE_URL" required:"true"`   // MySQL DSN (user:pass@tcp(host:port)/db)
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`     // HMAC secret for signing tokens
	JWTExpiresIn time.Duration `envconfig:"JWT_EXPIRES_IN" default:"168h"`  // token lifetime
	BcryptCost   int           `envconfig:"BCRYPT_COST" default:"10"`       // bcrypt cost factor
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`       // logrus level name
	CORSOrigins  []string      `envconfig:"CORS_ORIGINS" default:"*"`       // comma separated allow list
	AutoMigrate  bool          `envconfig:"AUTO_MIGRATE" default:"true"`    // run goose migrations on start
	RabbitMQURL  string        `envconfig:"RABBITMQ_URL"`                   // empty disables rating events
	RatingLogDir string        `envconfig:"RATING_LOG_DIR" default:"logs"`  // where the event consumer writes

	// Bootstrap administrator, created on start when both are set.
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"System Administrator Account"`
	AdminAddress  string `envconfig:"ADMIN_ADDRESS" default:"Head Office"`
}

// Load reads Config from the environment. Missing required variables
// produce an error naming the variable.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	return c, nil
}

// IsProduction reports whether stack traces and internal error details
// must be withheld from responses.
func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// BootstrapAdmin reports whether an initial admin account is configured.
func (c Config) BootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// EventsEnabled reports whether a broker URL was configured.
func (c Config) EventsEnabled() bool {
	return strings.TrimSpace(c.RabbitMQURL) != ""
}
