package config

// Redis backs the auth rate limiter only. When no address is configured,
// or the server does not answer a ping, NewRedisClient returns nil and the
// limiter degrades to a pass-through.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings.
//   REDIS_ADDR     – host:port; empty disables Redis
//   REDIS_PASSWORD – optional password
//   REDIS_DB       – database number
//   REDIS_TLS      – enable TLS
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	TLS      bool   `envconfig:"REDIS_TLS" default:"false"`
}

// LoadRedisConfig reads RedisConfig from the environment.
func LoadRedisConfig() (RedisConfig, error) {
	var c RedisConfig
	err := envconfig.Process("", &c)
	return c, err
}

// NewRedisClient connects using c. The returned client is nil when Redis
// is not configured or unreachable.
func NewRedisClient(c RedisConfig) *redis.Client {
	if c.Addr == "" {
		return nil
	}
	var tlsConf *tls.Config
	if c.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      c.Addr,
		Password:  c.Password,
		DB:        c.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
