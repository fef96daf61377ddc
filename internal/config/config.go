// Package config provides configuration management for the chatbridge server.
// It handles loading and parsing YAML configuration files, and provides structured
// access to application settings including the listen address, logging and the
// translator engine defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPort is the listen port used when the configuration does not set one.
const DefaultPort = 8318

// DefaultRequestLogMaxFiles is the number of conversion log files kept when
// request-log-max-files is unset.
const DefaultRequestLogMaxFiles = 1000

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Host is the interface the HTTP server binds to. Empty binds all interfaces.
	Host string `yaml:"host" json:"host"`

	// Port is the HTTP listen port.
	Port int `yaml:"port" json:"port"`

	// Debug enables debug-level logging, including source and converted payload bodies.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile writes logs to rotating files instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// LogsMaxTotalSizeMB caps the total size of the log directory. <= 0 disables the cap.
	LogsMaxTotalSizeMB int `yaml:"logs-max-total-size-mb" json:"logs-max-total-size-mb"`

	// LogDir overrides the log directory. Empty uses "logs" next to the working directory.
	LogDir string `yaml:"log-dir,omitempty" json:"log-dir,omitempty"`

	// RequestLog writes every conversion served over HTTP to <log-dir>/conversions.
	RequestLog bool `yaml:"request-log" json:"request-log"`

	// RequestLogMaxFiles caps the number of conversion log files kept. 0 applies
	// DefaultRequestLogMaxFiles; a negative value keeps all files.
	RequestLogMaxFiles int `yaml:"request-log-max-files" json:"request-log-max-files"`

	// Conversion configures the translator engine.
	Conversion ConversionConfig `yaml:"conversion" json:"conversion"`
}

// LoadConfig reads and parses the YAML configuration file.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigOptional(configFile, false)
}

// LoadConfigOptional reads the configuration file. When optional is true a
// missing or empty file yields the defaults instead of an error.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(configFile)
	if err != nil {
		if optional && (errors.Is(err, os.ErrNotExist) || strings.TrimSpace(configFile) == "") {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyDefaults()
	cfg.sanitizeDefaultModels()
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.RequestLogMaxFiles == 0 {
		cfg.RequestLogMaxFiles = DefaultRequestLogMaxFiles
	}
	if cfg.Conversion.DefaultMaxTokens <= 0 {
		cfg.Conversion.DefaultMaxTokens = sdktranslator.DefaultMaxTokens
	}
}

// sanitizeDefaultModels drops entries for unknown formats and normalizes keys.
func (cfg *Config) sanitizeDefaultModels() {
	if len(cfg.Conversion.DefaultModels) == 0 {
		return
	}
	clean := make(map[string]string, len(cfg.Conversion.DefaultModels))
	for name, model := range cfg.Conversion.DefaultModels {
		format := sdktranslator.FromString(name)
		if !format.Known() {
			log.Warnf("config: ignoring default model for unknown format %q", name)
			continue
		}
		if model = strings.TrimSpace(model); model != "" {
			clean[format.String()] = model
		}
	}
	cfg.Conversion.DefaultModels = clean
}
