// Package config loads geek-ppt settings from defaults, an optional config
// file, a .env file, GEEKPPT_* environment variables and bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GEEKPPT"

// Config is the resolved configuration.
type Config struct {
	Log       LogConfig
	Render    RenderConfig
	Redis     RedisConfig
	Diagram   DiagramConfig
	Server    ServerConfig
	Thumbnail ThumbnailConfig
}

type LogConfig struct {
	Level string
	File  string
}

type RenderConfig struct {
	DefaultPlugin string
	// Cache is one of "none", "memory" or "redis".
	Cache     string
	CacheSize int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

type DiagramConfig struct {
	MermaidCLI string
	D2Pad      int64
	// Disabled skips diagram rendering entirely; blocks render as errors.
	Disabled bool
}

type ServerConfig struct {
	Addr string
}

type ThumbnailConfig struct {
	Width int
	// Font paths; empty selects the bundled Go fonts.
	FontRegular string
	FontBold    string
	FontMono    string
}

var defaults = map[string]interface{}{
	"log.level":              "info",
	"log.file":               "",
	"render.default_plugin":  "plain",
	"render.cache":           "none",
	"render.cache_size":      256,
	"redis.addr":             "localhost:6379",
	"redis.password":         "",
	"redis.db":               0,
	"redis.ttl":              "24h",
	"redis.prefix":           "geekppt:render:",
	"diagram.mermaid_cli":    "",
	"diagram.d2_pad":         20,
	"diagram.disabled":       false,
	"server.addr":            ":8080",
	"thumbnail.width":        480,
	"thumbnail.font_regular": "",
	"thumbnail.font_bold":    "",
	"thumbnail.font_mono":    "",
}

// New returns a viper instance carrying defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ReadFile merges a YAML/TOML/JSON config file into v. A missing file is an
// error only when the path was given explicitly.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}
	v.SetConfigName("geekppt")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// MergeDotEnv merges GEEKPPT_* entries of a .env file into v above the
// config file layer. Real environment variables still win.
func MergeDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read .env file %s: %w", path, err)
	}
	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	byEnv := make(map[string]string, len(defaults))
	for k := range defaults {
		byEnv[EnvName(k)] = k
	}
	merged := map[string]interface{}{}
	for name, value := range envMap {
		key, ok := byEnv[name]
		if !ok {
			continue
		}
		section, field, _ := strings.Cut(key, ".")
		sub, _ := merged[section].(map[string]interface{})
		if sub == nil {
			sub = map[string]interface{}{}
			merged[section] = sub
		}
		sub[field] = value
	}
	if len(merged) == 0 {
		return nil
	}
	return v.MergeConfigMap(merged)
}

// Load resolves the configuration: defaults, config file, ./.env, env vars.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if v == nil {
		v = New()
	}
	if err := ReadFile(v, configFile); err != nil {
		return Config{}, err
	}
	if err := MergeDotEnv(v, ".env"); err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// FromViper snapshots v into a Config and validates it.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Render: RenderConfig{
			DefaultPlugin: v.GetString("render.default_plugin"),
			Cache:         strings.ToLower(v.GetString("render.cache")),
			CacheSize:     v.GetInt("render.cache_size"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
			Prefix:   v.GetString("redis.prefix"),
		},
		Diagram: DiagramConfig{
			MermaidCLI: v.GetString("diagram.mermaid_cli"),
			D2Pad:      v.GetInt64("diagram.d2_pad"),
			Disabled:   v.GetBool("diagram.disabled"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Thumbnail: ThumbnailConfig{
			Width:       v.GetInt("thumbnail.width"),
			FontRegular: v.GetString("thumbnail.font_regular"),
			FontBold:    v.GetString("thumbnail.font_bold"),
			FontMono:    v.GetString("thumbnail.font_mono"),
		},
	}
	switch cfg.Render.Cache {
	case "none", "memory", "redis":
	default:
		return cfg, fmt.Errorf("render.cache: unknown cache backend %q", cfg.Render.Cache)
	}
	if cfg.Render.CacheSize <= 0 {
		cfg.Render.CacheSize = defaults["render.cache_size"].(int)
	}
	if cfg.Thumbnail.Width <= 0 {
		return cfg, fmt.Errorf("thumbnail.width must be positive, got %d", cfg.Thumbnail.Width)
	}
	return cfg, nil
}
