// Package config defines the data structures related to configuration and
// includes functions for loading them from a YAML file, a .env file and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/iwvelando/flip-calculator/pkg/constants"
)

// Configuration holds all configuration for flip-calculator.
type Configuration struct {
	Calculator CalculatorConfig `mapstructure:"calculator" yaml:"calculator"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging,omitempty"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output,omitempty"`
}

// CalculatorConfig locates the remote calculation server.
type CalculatorConfig struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"` // zero disables
}

// ServerConfig holds the web front-end settings.
type ServerConfig struct {
	Address        string   `mapstructure:"address" yaml:"address"`
	MaxBodySize    string   `mapstructure:"maxBodySize" yaml:"maxBodySize"`
	AllowedOrigins []string `mapstructure:"allowedOrigins" yaml:"allowedOrigins,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json, yaml
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calculator.endpoint", constants.DefaultCalculatorEndpoint)
	v.SetDefault("calculator.timeout", time.Duration(0))
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:3000", "http://localhost"})
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
}

// LoadConfiguration builds the configuration from defaults, an optional .env
// file, FLIPCALC_* environment variables and, when configPath is not empty,
// the YAML file at configPath. Environment variables win over the file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ValidateConfiguration returns warnings for settings that are accepted but
// probably not what the user meant.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Calculator.Timeout < 0 {
		warnings = append(warnings, fmt.Sprintf("calculator.timeout %s is negative; calls will not time out", conf.Calculator.Timeout))
	}

	endpoint := strings.TrimSpace(conf.Calculator.Endpoint)
	if endpoint != "" && strings.HasPrefix(endpoint, "http://") && !isLocalEndpoint(endpoint) {
		warnings = append(warnings, fmt.Sprintf("calculator.endpoint %s is not local and does not use https", endpoint))
	}

	if len(conf.Server.AllowedOrigins) == 0 {
		warnings = append(warnings, "server.allowedOrigins is empty; cross-origin API calls will be rejected")
	}

	return warnings
}

func isLocalEndpoint(endpoint string) bool {
	host := strings.TrimPrefix(endpoint, "http://")
	for _, local := range []string{"localhost", "127.0.0.1", "[::1]"} {
		if host == local || strings.HasPrefix(host, local+":") || strings.HasPrefix(host, local+"/") {
			return true
		}
	}
	return false
}
