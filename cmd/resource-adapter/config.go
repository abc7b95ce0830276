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

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cowdogmoo/resource-adapter/cli"
	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/cowdogmoo/resource-adapter/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage resource-adapter configuration",
	Long: `Manage the resource-adapter configuration file.

The configuration file stores the project and stack names every resource
name is derived from, logging preferences, AWS credentials for image
lookups and synth defaults.

Configuration precedence (highest to lowest):
1. CLI flags
2. Environment variables (ADAPTER_*, AWS_*)
3. Configuration file ($XDG_CONFIG_HOME/resource-adapter/config.yaml)
4. Built-in defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long: `Create a new configuration file with default values.
If the file already exists, it is overwritten only with --force.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration after merging defaults, the
configuration file and environment variables. Credentials are redacted.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Examples:
  resource-adapter config set adapter.project_name acme
  resource-adapter config set aws.region us-west-2

Use dot notation to set nested values.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configForce bool

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite existing config file")
}

// defaultConfigPath returns where config init writes the file.
func defaultConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dirs := config.ConfigDirs()
	if len(dirs) == 0 {
		return "", errors.New("failed to resolve config directory")
	}
	return filepath.Join(dirs[0], configFileName), nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := defaultConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), config.DirPermReadWriteExec); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for key, value := range config.Defaults() {
		v.SetDefault(key, value)
	}
	var defaults config.Config
	if err := v.Unmarshal(&defaults); err != nil {
		return fmt.Errorf("failed to load default config: %w", err)
	}

	data, err := yaml.Marshal(&defaults)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, config.FilePermReadWrite); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logging.InfoContext(cmd.Context(), "Configuration file created at: %s", configPath)
	logging.InfoContext(cmd.Context(), "Set adapter.project_name and adapter.stack_name before running synth")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := configFromContext(cmd)
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	settings, err := redactedSettings(cfg)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# Current resource-adapter configuration")
	fmt.Fprintln(out, "# Sources: defaults -> config file -> environment variables -> CLI flags")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	if used := usedConfigFile(); used != "" {
		fmt.Fprintf(out, "\n# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "\n# No config file found (using defaults)")
	}
	return nil
}

// redactedSettings converts cfg to a nested map with credentials masked.
func redactedSettings(cfg *config.Config) (map[string]interface{}, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var settings map[string]interface{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return logging.RedactSettings(settings), nil
}

// usedConfigFile returns the config file in effect, or "" when none exists.
func usedConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	v := config.NewConfigViper()
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	if used := usedConfigFile(); used != "" {
		fmt.Fprintln(cmd.OutOrStdout(), used)
		return nil
	}

	configPath, err := defaultConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (not created yet)\n", configPath)
	logging.InfoContext(cmd.Context(), "Run 'resource-adapter config init' to create the config file")
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := cli.NewValidator().ValidateConfigSetOptions(key, value); err != nil {
		return err
	}
	if _, ok := config.Defaults()[key]; !ok {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	configPath := usedConfigFile()
	if configPath == "" {
		logging.WarnContext(cmd.Context(), "Config file doesn't exist. Creating it now...")
		if err := runConfigInit(cmd, nil); err != nil {
			return err
		}
		var err error
		if configPath, err = defaultConfigPath(); err != nil {
			return err
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	v.Set(key, value)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logging.InfoContext(cmd.Context(), "Set %s = %s", key, logging.RedactSensitiveValue(key, value))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if _, ok := config.Defaults()[key]; !ok {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromPath(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	settings, err := redactedSettings(cfg)
	if err != nil {
		return err
	}
	value, ok := lookupSetting(settings, key)
	if !ok {
		return fmt.Errorf("configuration key %q not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

// lookupSetting walks a dotted key through nested settings.
func lookupSetting(settings map[string]interface{}, key string) (interface{}, bool) {
	var current interface{} = settings
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}
