// =============================================================================
// Patron Import - Configuration Module
// =============================================================================
//
// Loads the application configuration from a YAML file. All process-wide
// concerns (input path, output directory, sheet names, tag mapper settings)
// are explicit configuration passed into the pipeline entry point; nothing
// is read as ambient state.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	// InputFile is the exported XLSX workbook to read.
	// Default: "./data/input.xlsx"
	InputFile string `yaml:"input_file"`

	// OutputDir is where the two CSV files and the run report are written.
	// The pipeline creates it if missing. Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// Sheets names the three worksheets inside the workbook.
	Sheets SheetNames `yaml:"sheets"`

	// Tags configures tag splitting and the optional mapping capability.
	Tags TagSettings `yaml:"tags"`
}

// SheetNames identifies the worksheets inside the input workbook.
type SheetNames struct {
	// Constituents holds the main records. Default: "Input Constituents"
	Constituents string `yaml:"constituents"`

	// Emails is the auxiliary emails sub-table. Default: "Input Emails"
	Emails string `yaml:"emails"`

	// Donations is the donation history. Default: "Input Donation History"
	Donations string `yaml:"donations"`
}

// TagSettings configures tag processing.
type TagSettings struct {
	// Delimiter separates tags inside the raw tag field. Default: ","
	Delimiter string `yaml:"delimiter"`

	// Mapper configures the optional external tag-name-mapping capability.
	Mapper MapperSettings `yaml:"mapper"`
}

// MapperSettings selects and configures the tag mapping backend.
// The mapping capability is best-effort: if a lookup fails the raw tag is
// used unchanged and the run continues.
type MapperSettings struct {
	// Mode selects the backend: "none", "static", "http" or "redis".
	// Default: "none" (tags pass through unchanged).
	Mode string `yaml:"mode"`

	// MappingFile is the YAML file of raw->cleaned names (mode "static").
	MappingFile string `yaml:"mapping_file"`

	// Endpoint is the lookup URL (mode "http"). The raw tag is passed as
	// the "tag" query parameter; the response is {"tag": "<cleaned>"}.
	Endpoint string `yaml:"endpoint"`

	// RedisAddr and RedisKey locate the mapping hash (mode "redis").
	// Lookups are HGET <redis_key> <raw tag>.
	RedisAddr string `yaml:"redis_addr"`
	RedisKey  string `yaml:"redis_key"`

	// TimeoutMS bounds a single lookup. There is no retry: a slow or
	// unreachable backend degrades to pass-through. Default: 2000
	TimeoutMS int `yaml:"timeout_ms"`
}

// Load reads, defaults and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.InputFile == "" {
		cfg.InputFile = "./data/input.xlsx"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Sheets.Constituents == "" {
		cfg.Sheets.Constituents = "Input Constituents"
	}
	if cfg.Sheets.Emails == "" {
		cfg.Sheets.Emails = "Input Emails"
	}
	if cfg.Sheets.Donations == "" {
		cfg.Sheets.Donations = "Input Donation History"
	}
	if cfg.Tags.Delimiter == "" {
		cfg.Tags.Delimiter = ","
	}
	if cfg.Tags.Mapper.Mode == "" {
		cfg.Tags.Mapper.Mode = "none"
	}
	if cfg.Tags.Mapper.TimeoutMS == 0 {
		cfg.Tags.Mapper.TimeoutMS = 2000
	}
}

func validate(cfg *Config) error {
	switch cfg.Tags.Mapper.Mode {
	case "none":
	case "static":
		if cfg.Tags.Mapper.MappingFile == "" {
			return fmt.Errorf("tag mapper mode 'static' requires mapping_file")
		}
	case "http":
		if cfg.Tags.Mapper.Endpoint == "" {
			return fmt.Errorf("tag mapper mode 'http' requires endpoint")
		}
	case "redis":
		if cfg.Tags.Mapper.RedisAddr == "" || cfg.Tags.Mapper.RedisKey == "" {
			return fmt.Errorf("tag mapper mode 'redis' requires redis_addr and redis_key")
		}
	default:
		return fmt.Errorf("unknown tag mapper mode: %s", cfg.Tags.Mapper.Mode)
	}

	return nil
}
