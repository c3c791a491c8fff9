package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/terabiome/kubespray-inventory/internal/inventory"
	"github.com/terabiome/kubespray-inventory/internal/output"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InventoryService runs load, classify, render and write as one operation.
type InventoryService struct {
	renderer *inventory.Renderer
	sink     output.Sink
	logger   *slog.Logger

	generateCounter  metric.Int64Counter
	hostCounter      metric.Int64Counter
	generateDuration metric.Float64Histogram
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(renderer *inventory.Renderer, sink output.Sink, logger *slog.Logger) *InventoryService {
	meter := otel.Meter("kubespray-inventory/service")

	generateCounter, err := meter.Int64Counter(
		"inventory.generate",
		metric.WithDescription("Number of inventory generate operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		logger.Warn("failed to create generateCounter metric", slog.String("error", err.Error()))
	}

	hostCounter, err := meter.Int64Counter(
		"inventory.hosts",
		metric.WithDescription("Number of hosts written to inventories"),
		metric.WithUnit("{host}"),
	)
	if err != nil {
		logger.Warn("failed to create hostCounter metric", slog.String("error", err.Error()))
	}

	generateDuration, err := meter.Float64Histogram(
		"inventory.generate.duration",
		metric.WithDescription("Duration of inventory generate operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		logger.Warn("failed to create generateDuration metric", slog.String("error", err.Error()))
	}

	return &InventoryService{
		renderer:         renderer,
		sink:             sink,
		logger:           logger.With(slog.String("service", "inventory")),
		generateCounter:  generateCounter,
		hostCounter:      hostCounter,
		generateDuration: generateDuration,
	}
}

// Generate builds the inventory described by params and hands it to the
// sink. Nothing reaches the sink unless every earlier stage succeeded.
func (s *InventoryService) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	tracer := otel.Tracer("kubespray-inventory/service")
	ctx, span := tracer.Start(ctx, "Generate")
	defer span.End()

	startTime := time.Now()
	result, err := s.generate(ctx, params)

	status := "success"
	if err != nil {
		status = "failure"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs := metric.WithAttributes(
		attribute.String("mode", string(params.Mode)),
		attribute.String("format", string(params.Format)),
		attribute.String("status", status),
	)
	if s.generateCounter != nil {
		s.generateCounter.Add(ctx, 1, attrs)
	}
	if s.generateDuration != nil {
		s.generateDuration.Record(ctx, time.Since(startTime).Seconds(), attrs)
	}

	return result, err
}

func (s *InventoryService) generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	log := s.logger.With(slog.String("input", params.InputPath), slog.String("mode", string(params.Mode)))

	nodes, err := inventory.Load(params.InputPath, inventory.LoadOptions{
		Mode:               params.Mode,
		TerraformOutputKey: params.TerraformOutputKey,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("loaded nodes", slog.Int("count", len(nodes)))

	cluster, err := inventory.Classify(nodes, params.Policy)
	if err != nil {
		return nil, err
	}

	if len(cluster.ControlPlane) == 0 {
		log.Warn("inventory has no control-plane nodes")
	}
	if len(cluster.Workers) == 0 {
		log.Warn("inventory has no worker nodes")
	}
	if cluster.Bastion != nil {
		if cluster.Bastion.PublicIP == "" {
			log.Warn("bastion has no public_ip, skipping ProxyCommand", slog.String("bastion", cluster.Bastion.Name))
		} else {
			log.Info("routing SSH through bastion", slog.String("public_ip", cluster.Bastion.PublicIP))
		}
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("inventory.control_plane", len(cluster.ControlPlane)),
		attribute.Int("inventory.workers", len(cluster.Workers)),
		attribute.Bool("inventory.bastion", cluster.Bastion != nil),
	)

	data, err := s.renderer.Render(cluster, inventory.RenderOptions{
		AnsibleUser: params.AnsibleUser,
		AnsiblePort: params.AnsiblePort,
		Become:      params.Become,
		Mode:        params.Mode,
		Format:      params.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render inventory: %w", err)
	}

	if err := s.sink.Write(ctx, params.OutputPath, data); err != nil {
		return nil, err
	}

	if s.hostCounter != nil {
		s.hostCounter.Add(ctx, int64(cluster.HostCount()))
	}
	log.Info("inventory generated",
		slog.String("output", params.OutputPath),
		slog.Int("control_plane", len(cluster.ControlPlane)),
		slog.Int("workers", len(cluster.Workers)),
	)

	return &GenerateResult{
		OutputPath:   params.OutputPath,
		ControlPlane: cluster.ControlPlane,
		Workers:      cluster.Workers,
		Bastion:      cluster.Bastion,
		Bytes:        len(data),
	}, nil
}
