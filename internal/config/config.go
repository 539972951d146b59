// Package config loads the portal configuration from an optional YAML file
// overlaid with PORTAL_-prefixed environment variables.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string          `koanf:"env"` // development or production
	Server    ServerConfig    `koanf:"server"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Storage   StorageConfig   `koanf:"storage"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

// AuthConfig selects the session provider. When the OIDC issuer is set the
// OIDC provider is used, otherwise the shared-secret JWT provider.
type AuthConfig struct {
	JWTSecret string     `koanf:"jwt_secret"`
	OIDC      OIDCConfig `koanf:"oidc"`
}

type OIDCConfig struct {
	Issuer       string `koanf:"issuer"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

// RateLimitConfig selects the rate-limit store. An empty DSN means the
// in-memory store; a DSN selects the shared database store.
type RateLimitConfig struct {
	DSN string `koanf:"dsn"`
}

type StorageConfig struct {
	Path string `koanf:"path"` // sqlite database path; empty means in-memory repos
}

// Load reads configuration from path (a missing file is not an error) and
// then from PORTAL_-prefixed environment variables, where double
// underscores nest keys (PORTAL_SERVER__PORT -> server.port).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("PORTAL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PORTAL_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("env") {
		k.Set("env", EnvDevelopment)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Development reports whether the portal runs in development mode.
func (c *Config) Development() bool {
	return c.Env != EnvProduction
}
