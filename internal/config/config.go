package config

import (
	"path/filepath"
	"strings"

	"prodinsight/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Input   InputConfig   `validate:"required"`
	Output  OutputConfig  `validate:"required"`
	Logging LoggingConfig `validate:"required"`
}

// InputConfig holds the dataset location
type InputConfig struct {
	File string `validate:"required"`
}

// OutputConfig holds artifact destination and optional report outputs
type OutputConfig struct {
	Dir         string `validate:"required"`
	XLSXReport  bool
	HTMLReport  bool
	MetricsFile string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `validate:"required,oneof=ERROR WARN INFO DEBUG TRACE"`
}

// Environment keys
const (
	KeyInputFile   = "INPUT_FILE"
	KeyOutputDir   = "OUTPUT_DIR"
	KeyLogLevel    = "LOG_LEVEL"
	KeyXLSXReport  = "XLSX_REPORT"
	KeyHTMLReport  = "HTML_REPORT"
	KeyMetricsFile = "METRICS_FILE"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	return LoadFrom(newEnvViper())
}

// LoadFrom builds the configuration from an already populated viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{
		Input: InputConfig{
			File: strings.TrimSpace(v.GetString(KeyInputFile)),
		},
		Output: OutputConfig{
			Dir:         strings.TrimSpace(v.GetString(KeyOutputDir)),
			XLSXReport:  v.GetBool(KeyXLSXReport),
			HTMLReport:  v.GetBool(KeyHTMLReport),
			MetricsFile: strings.TrimSpace(v.GetString(KeyMetricsFile)),
		},
		Logging: LoggingConfig{
			Level: strings.ToUpper(strings.TrimSpace(v.GetString(KeyLogLevel))),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func newEnvViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyInputFile, "amazon_sales_data.csv")
	v.SetDefault(KeyOutputDir, "dashboard_data")
	v.SetDefault(KeyLogLevel, "INFO")
	v.SetDefault(KeyXLSXReport, true)
	v.SetDefault(KeyHTMLReport, true)
	v.SetDefault(KeyMetricsFile, "metrics.prom")
}

func validateConfig(config *Config) error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}

	switch strings.ToLower(filepath.Ext(config.Input.File)) {
	case ".csv", ".xlsx":
	default:
		return errors.ConfigInvalid("INPUT_FILE must be a .csv or .xlsx file")
	}

	if config.Output.MetricsFile != "" && filepath.Base(config.Output.MetricsFile) != config.Output.MetricsFile {
		return errors.ConfigInvalid("METRICS_FILE must be a bare file name inside OUTPUT_DIR")
	}
	return nil
}

// MetricsPath returns the metrics textfile location, or "" when disabled
func (c *Config) MetricsPath() string {
	if c.Output.MetricsFile == "" {
		return ""
	}
	return filepath.Join(c.Output.Dir, c.Output.MetricsFile)
}
