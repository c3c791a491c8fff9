package main

import (
	"github.com/terabiome/kubespray-inventory/internal/config"
	"github.com/terabiome/kubespray-inventory/internal/service"
	"github.com/urfave/cli/v2"
)

// flagKeys maps generate flags to config keys. Only flags the user set are
// forwarded so mode defaults, config files and env vars stay in effect.
var flagKeys = map[string]string{
	"mode":                 config.KeyMode,
	"input":                config.KeyInput,
	"output":               config.KeyOutput,
	"ansible-user":         config.KeyAnsibleUser,
	"ansible-port":         config.KeyAnsiblePort,
	"become":               config.KeyBecome,
	"require-roles":        config.KeyRequireRoles,
	"format":               config.KeyFormat,
	"terraform-output-key": config.KeyTerraformOutputKey,
	"template":             config.KeyTemplatePath,
	"log-level":            config.KeyLogLevel,
	"log-format":           config.KeyLogFormat,
	"telemetry":            config.KeyTelemetryEnabled,
}

// adaptOverrides converts explicitly set CLI flags to config overrides
func adaptOverrides(cliCtx *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if cliCtx.IsSet(flag) {
			overrides[key] = cliCtx.Value(flag)
		}
	}
	if cliCtx.Bool("no-gitignore") {
		overrides[config.KeyWriteGitignore] = false
	}
	return overrides
}

// adaptGenerate converts resolved configuration to service params
func adaptGenerate(cfg *config.Config) service.GenerateParams {
	return service.GenerateParams{
		InputPath:          cfg.InputPath,
		OutputPath:         cfg.OutputPath,
		Mode:               cfg.Mode,
		Format:             cfg.Format,
		TerraformOutputKey: cfg.TerraformOutputKey,
		AnsibleUser:        cfg.AnsibleUser,
		AnsiblePort:        cfg.AnsiblePort,
		Become:             cfg.Become,
		Policy:             cfg.Policy(),
	}
}
