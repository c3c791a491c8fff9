package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/terabiome/kubespray-inventory/internal/config"
	"github.com/terabiome/kubespray-inventory/internal/inventory"
	"github.com/terabiome/kubespray-inventory/internal/output"
	"github.com/terabiome/kubespray-inventory/internal/service"
	"github.com/terabiome/kubespray-inventory/pkg/logger"
	"github.com/terabiome/kubespray-inventory/pkg/telemetry"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                 "kubespray-inventory",
		Usage:                "Generate a Kubespray inventory from provisioned node data",
		EnableBashCompletion: true,
		DefaultCommand:       "generate",
		Writer:               stdout,
		ErrWriter:            stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (yaml, json or toml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text, json",
			},
			&cli.BoolFlag{
				Name:  "telemetry",
				Usage: "Export traces and metrics to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Write a Kubespray inventory from a node JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Validation and layout mode: strict or bastion",
						Value:   string(inventory.ModeStrict),
					},
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Path to node JSON (default: output.json, bastion: artifacts/nodes.json)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the inventory (default: inventory.ini, bastion: ansible/inventory/inventory.ini)",
					},
					&cli.StringFlag{
						Name:  "ansible-user",
						Usage: "ansible_user for every host (default: empty, bastion: debian)",
					},
					&cli.StringFlag{
						Name:  "ansible-port",
						Usage: "SSH port",
						Value: inventory.DefaultAnsiblePort,
					},
					&cli.BoolFlag{
						Name:  "become",
						Usage: "Add ansible_become=true to every host (default: false, bastion: true)",
					},
					&cli.BoolFlag{
						Name:  "require-roles",
						Usage: "Fail when the control plane or worker group is empty (default: true, bastion: false)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Inventory format: ini or yaml",
						Value: string(inventory.FormatINI),
					},
					&cli.StringFlag{
						Name:  "terraform-output-key",
						Usage: "Read nodes from <key>.value of `terraform output -json`",
					},
					&cli.StringFlag{
						Name:  "template",
						Usage: "Custom text/template for the ini inventory",
					},
					&cli.BoolFlag{
						Name:  "no-gitignore",
						Usage: "Do not write a .gitignore next to the inventory",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the inventory to stdout instead of writing it",
					},
				},
				Action: func(cliCtx *cli.Context) error {
					return runGenerate(cliCtx, stdout, stderr)
				},
			},
			{
				Name:      "sort",
				Usage:     "Print hostnames in inventory order",
				ArgsUsage: "HOST...",
				Action: func(cliCtx *cli.Context) error {
					hosts := cliCtx.Args().Slice()
					inventory.SortHosts(hosts)
					for _, host := range hosts {
						fmt.Fprintln(stdout, host)
					}
					return nil
				},
			},
		},
	}
}

func runGenerate(cliCtx *cli.Context, stdout, stderr io.Writer) error {
	ctx := cliCtx.Context

	cfg, err := config.Load(cliCtx.String("config"), adaptOverrides(cliCtx))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	log := logger.NewWithWriter(stderr, cfg.LogLevel, cfg.LogFormat).
		With(slog.String("run_id", uuid.New().String()))
	log.Debug("kubespray-inventory starting",
		slog.String("mode", string(cfg.Mode)),
		slog.String("format", string(cfg.Format)),
		slog.Bool("telemetry_enabled", cfg.TelemetryEnabled),
	)

	if cfg.TelemetryEnabled {
		tel, err := telemetry.Initialize("kubespray-inventory", stderr)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				log.Error("failed to shutdown telemetry", slog.String("error", err.Error()))
			}
		}()
		log.Debug("telemetry initialized")
	}

	renderer, err := inventory.NewRenderer(cfg.TemplatePath)
	if err != nil {
		return err
	}

	dryRun := cliCtx.Bool("dry-run")

	var sink output.Sink
	if dryRun {
		sink = output.NewWriterSink(stdout)
	} else {
		sink = output.NewFileSink(cfg.WriteGitignore, log)
	}

	result, err := service.NewInventoryService(renderer, sink, log).Generate(ctx, adaptGenerate(cfg))
	if err != nil {
		return err
	}

	if !dryRun {
		fmt.Fprintf(stdout, "Wrote: %s\n", result.OutputPath)
	}
	return nil
}
