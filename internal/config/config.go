// Package config loads folio settings from defaults, an optional YAML file and
// FOLIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/circuitfolio/folio/internal/publish"
)

// EnvPrefix namespaces environment overrides, e.g. FOLIO_SERVE_PORT.
const EnvPrefix = "FOLIO"

// Catalog sources.
const (
	SourceEmbedded = "embedded"
	SourceSQLite   = "sqlite"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	SiteTitle   string `mapstructure:"siteTitle"`
	BaseURL     string `mapstructure:"baseURL"`
	OutputDir   string `mapstructure:"outputDir"`
	StaticDir   string `mapstructure:"staticDir"`
	WasmBinary  string `mapstructure:"wasmBinary"`
	LogLevel    string `mapstructure:"logLevel"`
	LogEncoding string `mapstructure:"logEncoding"`

	Catalog Catalog        `mapstructure:"catalog"`
	Serve   Serve          `mapstructure:"serve"`
	Publish publish.Config `mapstructure:"publish"`
}

type Catalog struct {
	Source     string `mapstructure:"source"`
	SQLitePath string `mapstructure:"sqlitePath"`
}

type Serve struct {
	Port     int           `mapstructure:"port"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers every key with its default value. Keys without a
// default are invisible to AutomaticEnv during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("siteTitle", "Portfolio")
	v.SetDefault("baseURL", "")
	v.SetDefault("outputDir", "public")
	v.SetDefault("staticDir", "static")
	v.SetDefault("wasmBinary", "folio.wasm")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logEncoding", "console")

	v.SetDefault("catalog.source", SourceEmbedded)
	v.SetDefault("catalog.sqlitePath", "catalog.db")

	v.SetDefault("serve.port", 1313)
	v.SetDefault("serve.debounce", 500*time.Millisecond)

	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.prefix", "")
	v.SetDefault("publish.region", "us-east-1")
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("publish.pathStyle", false)
	v.SetDefault("publish.accessKeyId", "")
	v.SetDefault("publish.secretAccessKey", "")
}

// Load reads file, or ./folio.yaml when file is empty. A missing default file
// is not an error; a missing explicit file is. It reports the config file
// used, if any.
func Load(v *viper.Viper, file string) (Config, string, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || file != "" {
			return Config{}, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return cfg, used, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Catalog.Source {
	case SourceEmbedded:
	case SourceSQLite:
		if c.Catalog.SQLitePath == "" {
			return fmt.Errorf("%w: catalog.sqlitePath required for sqlite source", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown catalog.source %q", ErrInvalid, c.Catalog.Source)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: outputDir required", ErrInvalid)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("%w: serve.port %d out of range", ErrInvalid, c.Serve.Port)
	}
	return nil
}
