/*
Copyright © 2026 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package config loads the adapter's configuration: naming identifiers,
// logging preferences, AWS credentials for image lookups and synth output
// defaults. Values come from a YAML file, ADAPTER_* environment variables
// and defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/cowdogmoo/resource-adapter/naming"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by the adapter.
const EnvPrefix = "ADAPTER"

// Config represents the adapter configuration.
type Config struct {
	Adapter AdapterConfig `mapstructure:"adapter" yaml:"adapter"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	AWS     AWSConfig     `mapstructure:"aws" yaml:"aws"`
	Synth   SynthConfig   `mapstructure:"synth" yaml:"synth"`
}

// AdapterConfig holds the identifiers every resource name is derived from.
type AdapterConfig struct {
	ProjectName string `mapstructure:"project_name" yaml:"project_name"`
	StackName   string `mapstructure:"stack_name" yaml:"stack_name"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AWSConfig holds credentials used for live image lookups.
type AWSConfig struct {
	Region          string `mapstructure:"region" yaml:"region"`
	Profile         string `mapstructure:"profile" yaml:"profile"`
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token" yaml:"session_token"`
}

// SynthConfig holds defaults for the synth command.
type SynthConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// Naming returns the naming context for the configured project and stack.
func (c *Config) Naming() (naming.Context, error) {
	return naming.New(c.Adapter.ProjectName, c.Adapter.StackName)
}

// Load reads the configuration from the standard search paths.
// A missing config file is not an error.
func Load() (*Config, error) {
	v := NewConfigViper()
	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
}

// Defaults returns the default value of every configuration key.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"adapter.project_name":  "",
		"adapter.stack_name":    "",
		"log.level":             "info",
		"log.format":            "color",
		"aws.region":            "",
		"aws.profile":           "",
		"aws.access_key_id":     "",
		"aws.secret_access_key": "",
		"aws.session_token":     "",
		"synth.format":          "yaml",
	}
}

// bindEnvVars binds ADAPTER_* variables and the standard AWS_* variables.
func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("adapter.project_name", EnvPrefix+"_PROJECT_NAME")
	_ = v.BindEnv("adapter.stack_name", EnvPrefix+"_STACK_NAME")

	awsEnv := map[string]string{
		"aws.region":            "AWS_REGION",
		"aws.profile":           "AWS_PROFILE",
		"aws.access_key_id":     "AWS_ACCESS_KEY_ID",
		"aws.secret_access_key": "AWS_SECRET_ACCESS_KEY",
		"aws.session_token":     "AWS_SESSION_TOKEN",
	}
	for key, env := range awsEnv {
		// ADAPTER_AWS_* wins over AWS_*
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}
