package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"github.com/terabiome/kubespray-inventory/internal/inventory"
)

const EnvPrefix = "kubespray_inventory"

// Config keys. CLI flags, env vars (KUBESPRAY_INVENTORY_<KEY>) and config
// files all use these names.
const (
	KeyMode               = "mode"
	KeyInput              = "input"
	KeyOutput             = "output"
	KeyAnsibleUser        = "ansible_user"
	KeyAnsiblePort        = "ansible_port"
	KeyBecome             = "become"
	KeyRequireRoles       = "require_roles"
	KeyFormat             = "format"
	KeyTerraformOutputKey = "terraform_output_key"
	KeyTemplatePath       = "template_path"
	KeyWriteGitignore     = "write_gitignore"
	KeyLogLevel           = "log_level"
	KeyLogFormat          = "log_format"
	KeyTelemetryEnabled   = "telemetry_enabled"
)

// modeDefaults holds the defaults that differ between modes.
var modeDefaults = map[inventory.Mode]map[string]any{
	inventory.ModeStrict: {
		KeyInput:        "output.json",
		KeyOutput:       "inventory.ini",
		KeyAnsibleUser:  "",
		KeyAnsiblePort:  inventory.DefaultAnsiblePort,
		KeyBecome:       false,
		KeyRequireRoles: true,
	},
	inventory.ModeBastion: {
		KeyInput:        "artifacts/nodes.json",
		KeyOutput:       "ansible/inventory/inventory.ini",
		KeyAnsibleUser:  "debian",
		KeyAnsiblePort:  inventory.DefaultAnsiblePort,
		KeyBecome:       true,
		KeyRequireRoles: false,
	},
}

type Config struct {
	Mode               inventory.Mode
	InputPath          string
	OutputPath         string
	AnsibleUser        string
	AnsiblePort        string
	Become             bool
	RequireRoles       bool
	Format             inventory.Format
	TerraformOutputKey string
	TemplatePath       string
	WriteGitignore     bool
	LogLevel           string
	LogFormat          string
	TelemetryEnabled   bool
}

// Load resolves configuration from, in increasing precedence: mode defaults,
// the optional config file, environment variables and overrides (explicitly
// set CLI flags).
func Load(configFile string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyMode, string(inventory.ModeStrict))
	v.SetDefault(KeyFormat, string(inventory.FormatINI))
	v.SetDefault(KeyWriteGitignore, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyTelemetryEnabled, false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	mode, err := inventory.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return nil, err
	}
	for key, value := range modeDefaults[mode] {
		v.SetDefault(key, value)
	}

	format, err := inventory.ParseFormat(v.GetString(KeyFormat))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:               mode,
		InputPath:          v.GetString(KeyInput),
		OutputPath:         v.GetString(KeyOutput),
		AnsibleUser:        v.GetString(KeyAnsibleUser),
		AnsiblePort:        v.GetString(KeyAnsiblePort),
		Become:             v.GetBool(KeyBecome),
		RequireRoles:       v.GetBool(KeyRequireRoles),
		Format:             format,
		TerraformOutputKey: v.GetString(KeyTerraformOutputKey),
		TemplatePath:       v.GetString(KeyTemplatePath),
		WriteGitignore:     v.GetBool(KeyWriteGitignore),
		LogLevel:           v.GetString(KeyLogLevel),
		LogFormat:          v.GetString(KeyLogFormat),
		TelemetryEnabled:   v.GetBool(KeyTelemetryEnabled),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path must not be empty")
	}

	if c.OutputPath == "" {
		return fmt.Errorf("output path must not be empty")
	}

	port, err := strconv.Atoi(c.AnsiblePort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid ansible port: %q (valid: 1-65535)", c.AnsiblePort)
	}

	if c.TemplatePath != "" {
		if c.Format != inventory.FormatINI {
			return fmt.Errorf("template path is only supported with the ini format")
		}
		if err := validateFileExists(c.TemplatePath); err != nil {
			return fmt.Errorf("inventory template: %w", err)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.LogFormat)
	}

	return nil
}

// Policy returns the empty-group policy for this configuration.
func (c *Config) Policy() inventory.Policy {
	return inventory.Policy{
		RequireControlPlane: c.RequireRoles,
		RequireWorkers:      c.RequireRoles,
	}
}

func validateFileExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	} else if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	return nil
}
