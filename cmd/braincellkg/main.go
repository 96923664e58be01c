// Package main implements the entry point for the braincellkg batch tool.
// It maps cluster-label tokens of a brain cell taxonomy to knowledge graph
// entities, checks hierarchical consistency and writes the report tables.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cellular-semantics/braincellkg/analysis"
	"github.com/cellular-semantics/braincellkg/catalog"
	"github.com/cellular-semantics/braincellkg/config"
	"github.com/cellular-semantics/braincellkg/metric"
	"github.com/cellular-semantics/braincellkg/pipeline"
	"github.com/cellular-semantics/braincellkg/report"
	"github.com/cellular-semantics/braincellkg/resolver"
	"github.com/cellular-semantics/braincellkg/token"
	"github.com/cellular-semantics/braincellkg/vocabulary"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "braincellkg"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Batch failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		rendered, err := cfg.ToJSON()
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}
		fmt.Println(rendered)
		slog.Info("Configuration is valid")
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := metric.NewRegistry()
	stopMetrics := serveMetrics(cfg.Metrics.Addr, registry, logger)
	defer stopMetrics()

	cat, err := connectCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cat.Close(context.Background()); err != nil {
			logger.Warn("catalog close failed", "error", err)
		}
	}()

	batch, err := buildBatch(cfg, cat, registry, logger)
	if err != nil {
		return err
	}

	logger.Info("starting batch",
		"batch", batch.ID(),
		"taxonomy", cfg.Taxonomy.Name,
		"output_dir", cfg.Reports.OutputDir)
	return batch.Run(ctx)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting braincellkg token mapping",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// connectCatalog opens the Neo4j catalog. The constructor verifies
// connectivity itself and closes the driver on failure.
func connectCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Catalog, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cat, err := catalog.NewNeo4jCatalog(connectCtx,
		cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password,
		catalog.WithDatabase(cfg.Neo4j.Database),
		catalog.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return cat, nil
}

// buildBatch assembles the tokenizer, resolver, aggregator scope and report
// sinks from the configuration.
func buildBatch(
	cfg *config.Config,
	cat catalog.Catalog,
	registry *metric.Registry,
	logger *slog.Logger,
) (*pipeline.Batch, error) {
	tokenCatalog, err := loadTokenCatalog(cfg.Taxonomy.TokenCatalog, logger)
	if err != nil {
		return nil, err
	}

	tokOpts := []token.Option{}
	resOpts := []resolver.Option{resolver.WithLogger(logger)}
	if tokenCatalog != nil {
		tokOpts = append(tokOpts, token.WithCatalog(tokenCatalog))
		resOpts = append(resOpts, resolver.WithTokenCatalog(tokenCatalog))
	}
	if order := cfg.StrategyOrder(); order != nil {
		resOpts = append(resOpts, resolver.WithStrategyOrder(order))
	}
	if cfg.Resolver.LabelSearch {
		resOpts = append(resOpts, resolver.WithLabelSearch())
	}

	sinks, err := buildSinks(cfg)
	if err != nil {
		return nil, err
	}

	return pipeline.NewBatch(cat, cfg.Taxonomy.Name,
		pipeline.WithTokenizer(token.New(tokOpts...)),
		pipeline.WithResolver(resolver.New(cat, resOpts...)),
		pipeline.WithAggregatorOptions(
			analysis.WithScope(analysis.Scope{
				StopTier:      cfg.StopTier(),
				ExcludeLabels: cfg.Analysis.ExcludeLabels,
			}),
			analysis.WithComboSeparator(cfg.Analysis.ComboSeparator),
			analysis.WithConsistencyDepth(cfg.Analysis.ConsistencyDepth),
			analysis.WithLogger(logger),
		),
		pipeline.WithSinks(sinks...),
		pipeline.WithMetrics(registry),
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(cfg.Batch.Workers, cfg.Batch.QueueSize),
	), nil
}

// loadTokenCatalog reads the curated token table when one is configured.
func loadTokenCatalog(path string, logger *slog.Logger) (*vocabulary.TokenCatalog, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open token catalog: %w", err)
	}
	defer f.Close()

	tc, err := vocabulary.LoadTokenCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load token catalog: %w", err)
	}
	logger.Info("token catalog loaded", "path", path, "entries", tc.Len())
	return tc, nil
}

// buildSinks creates the CSV sink and, when configured, the XLSX workbook.
func buildSinks(cfg *config.Config) ([]report.Sink, error) {
	csvSink, err := report.NewCSVSink(cfg.Reports.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("create csv sink: %w", err)
	}
	sinks := []report.Sink{csvSink}
	if cfg.Reports.Workbook != "" {
		sinks = append(sinks, report.NewWorkbook(cfg.Reports.Workbook))
	}
	return sinks, nil
}

// serveMetrics exposes the Prometheus endpoint while the batch runs. The
// returned stop function shuts the server down.
func serveMetrics(addr string, registry *metric.Registry, logger *slog.Logger) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
	}
}
