package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DocsConfig struct {
	Dir      string   `mapstructure:"dir"`
	Patterns []string `mapstructure:"patterns"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

type ExportConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type Config struct {
	Docs   DocsConfig   `mapstructure:"docs"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Export ExportConfig `mapstructure:"export"`
}

// cacheBase returns the base cache directory for doxyschema.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/doxyschema as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "doxyschema")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "doxyschema")
	}
	return filepath.Join(os.TempDir(), "doxyschema")
}

// CacheDir returns the default directory for schema snapshots.
func CacheDir() string {
	return cacheBase()
}

// DBPath returns the default path of the DuckDB export.
func DBPath() string {
	return filepath.Join(cacheBase(), "schema.duckdb")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "doxyschema"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "doxyschema"))
	}

	viper.SetDefault("docs.dir", ".")
	viper.SetDefault("docs.patterns", []string{"class*.html", "struct*.html"})
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", CacheDir())
	viper.SetDefault("export.db_path", DBPath())

	viper.SetEnvPrefix("DOXYSCHEMA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// expandHomeHookFunc expands a leading "~/" in any string setting.
func expandHomeHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.String {
			return data, nil
		}
		s := data.(string)
		if !strings.HasPrefix(s, "~/") {
			return data, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return data, nil
		}
		return filepath.Join(home, s[2:]), nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			expandHomeHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Docs.Patterns = trimPatterns(config.Docs.Patterns)
	if len(config.Docs.Patterns) == 0 {
		return nil, fmt.Errorf("docs.patterns must list at least one pattern")
	}
	return &config, nil
}

func trimPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
