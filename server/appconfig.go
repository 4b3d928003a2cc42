package server

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrSecretNotSet aborts startup: running without a signing secret would
// issue unverifiable tokens.
var ErrSecretNotSet = errors.New("jwt secret not set")

// AppConfig defines application configuration loaded from files and environment.
type AppConfig struct {
	Env      string         `koanf:"env"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	JWT      JWTConfig      `koanf:"jwt"`
	Valkey   ValkeyConfig   `koanf:"valkey"`
	CORS     CORSConfig     `koanf:"cors"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type DatabaseConfig struct {
	DSN string `koanf:"dsn"`
}

type JWTConfig struct {
	Secret        string        `koanf:"secret"`
	AccessExpire  time.Duration `koanf:"access_expire"`
	RefreshExpire time.Duration `koanf:"refresh_expire"`
}

type ValkeyConfig struct {
	Addr   string `koanf:"addr"`
	Prefix string `koanf:"prefix"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

// LoadConfig loads configuration. Loading order:
// 1) config/config.yaml (optional)
// 2) config/config.<APP_ENV>.yaml (optional), APP_ENV defaults to "local"
// 3) Environment variables with prefix FASTADMIN_ mapped using __ as nested
//    separator, e.g. FASTADMIN_DATABASE__DSN, FASTADMIN_JWT__SECRET
func LoadConfig() (*AppConfig, error) {
	k := koanf.New(".")
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "local"
	}
	for _, name := range []string{"config.yaml", "config." + envName + ".yaml"} {
		path := filepath.Join(configDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			log.Printf("config: failed loading %s: %v", path, err)
		}
	}
	if err := k.Load(env.Provider("FASTADMIN_", "__", func(s string) string {
		// FASTADMIN_DATABASE__DSN -> database.dsn
		return strings.ToLower(strings.TrimPrefix(s, "FASTADMIN_"))
	}), nil); err != nil {
		log.Printf("config: env load error: %v", err)
	}

	var c AppConfig
	if err := k.Unmarshal("", &c); err != nil {
		return nil, err
	}
	if c.Env == "" {
		c.Env = envName
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.JWT.Secret == "" {
		return nil, ErrSecretNotSet
	}
	if c.JWT.AccessExpire <= 0 {
		c.JWT.AccessExpire = 12 * time.Hour
	}
	if c.JWT.RefreshExpire <= 0 {
		c.JWT.RefreshExpire = 7 * 24 * time.Hour
	}
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"*"}
	}
	return &c, nil
}
