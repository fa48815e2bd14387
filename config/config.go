// Package config loads the AgroTrack runtime configuration from the
// environment (prefix AGROTRACK) and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"agrotrack/services"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "AGROTRACK"

// ConfigFileEnv names the optional YAML file layered over the environment.
const ConfigFileEnv = "AGROTRACK_CONFIG_FILE"

// Config is the complete application configuration.
type Config struct {
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Seed    bool          `yaml:"seed" envconfig:"SEED" default:"true"`
}

// ExportConfig controls how reports are rendered.
type ExportConfig struct {
	Branding             string `yaml:"branding" envconfig:"BRANDING" default:"AgroTrack - Gestión de Flota"`
	Timezone             string `yaml:"timezone" envconfig:"TIMEZONE" default:"America/Santiago"`
	Orientation          string `yaml:"orientation" envconfig:"ORIENTATION" default:"landscape"`
	MaxConcurrentRenders int    `yaml:"max_concurrent_renders" envconfig:"MAX_CONCURRENT_RENDERS" default:"2"`
	CSVByteOrderMark     bool   `yaml:"csv_byte_order_mark" envconfig:"CSV_BYTE_ORDER_MARK" default:"false"`
	OutputDir            string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"exports"`
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text"`
}

// Load reads defaults and environment variables, then overlays the YAML file
// named by AGROTRACK_CONFIG_FILE when it is set. Values from the file win.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadFromFile unmarshals path over cfg; keys absent from the file keep
// their current value.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Export),
		validation.Field(&c.Logging),
	)
}

func (c ExportConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timezone, validation.Required, validation.By(validTimezone)),
		validation.Field(&c.Orientation, validation.Required, validation.In("landscape", "portrait")),
		validation.Field(&c.MaxConcurrentRenders, validation.Required, validation.Min(1), validation.Max(64)),
		validation.Field(&c.OutputDir, validation.Required),
	)
}

func (c LoggingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.Format, validation.In("json", "text")),
	)
}

func validTimezone(value any) error {
	name, _ := value.(string)
	if _, err := time.LoadLocation(name); err != nil {
		return errors.New("unknown timezone")
	}
	return nil
}

// Location returns the configured timezone. It falls back to UTC when the
// zone database does not know the name.
func (c ExportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ExporterOptions maps the export section onto services.ExporterOptions.
func (c ExportConfig) ExporterOptions() services.ExporterOptions {
	return services.ExporterOptions{
		Branding:             c.Branding,
		Location:             c.Location(),
		Landscape:            c.Orientation != "portrait",
		ByteOrderMark:        c.CSVByteOrderMark,
		MaxConcurrentRenders: c.MaxConcurrentRenders,
	}
}
