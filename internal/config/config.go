// Package config loads server configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string `env:"HUB_ADDR" envDefault:":8080"`

	// BlobBackend selects the storage backend: memory, pebble or oxidb.
	BlobBackend string `env:"HUB_BLOB_BACKEND" envDefault:"pebble"`
	PebbleDir   string `env:"HUB_PEBBLE_DIR" envDefault:"./data"`
	OxiDBHost   string `env:"OXIDB_HOST" envDefault:"127.0.0.1"`
	OxiDBPort   int    `env:"OXIDB_PORT" envDefault:"4444"`
	OxiDBBucket string `env:"OXIDB_BUCKET" envDefault:"partnerhub"`
	PoolSize    int    `env:"HUB_POOL_SIZE" envDefault:"3"`

	ConfigTTL time.Duration `env:"HUB_CONFIG_TTL" envDefault:"5m"`

	JWTSecret  string `env:"HUB_JWT_SECRET" envDefault:"partnerhub-dev-secret-change-me"`
	AdminEmail string `env:"HUB_ADMIN_EMAIL" envDefault:"admin@partnerhub.local"`
	AdminPass  string `env:"HUB_ADMIN_PASS" envDefault:"admin123"`

	GelfAddr string `env:"HUB_GELF_ADDR"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}
