package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mdstat-exporter/internal/collector"
	"mdstat-exporter/internal/config"
	"mdstat-exporter/internal/disk/tools"
	"mdstat-exporter/internal/health"
	"mdstat-exporter/internal/mcptools"
	"mdstat-exporter/internal/mdstat"
	"mdstat-exporter/internal/metrics"
	"mdstat-exporter/internal/system"
)

const shutdownTimeout = 15 * time.Second

// serveOptions are the flags of the serve command.
type serveOptions struct {
	port            string
	metricsPath     string
	collectInterval time.Duration
	noMCP           bool
}

func newServeCmd(g *globalOptions) *cobra.Command {
	o := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Prometheus exporter",
		Long: `Serve md array metrics over HTTP.

Endpoints:
  /             info page
  /metrics      Prometheus metrics (path configurable)
  /health       liveness probe
  /health/json  detailed array health
  /mcp          MCP tools (unless disabled)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			o.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServer(ctxOf(cmd), cfg)
		},
	}

	o.register(cmd)
	return cmd
}

func (o *serveOptions) register(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().StringVar(&o.port, "port", defaults.Port, "HTTP listen port")
	cmd.Flags().StringVar(&o.metricsPath, "metrics-path", defaults.MetricsPath, "path of the metrics endpoint")
	cmd.Flags().DurationVar(&o.collectInterval, "collect-interval", defaults.CollectInterval, "time between collections")
	cmd.Flags().BoolVar(&o.noMCP, "no-mcp", false, "disable the MCP endpoint")
}

// apply copies explicitly set flags over cfg.
func (o *serveOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("metrics-path") {
		cfg.MetricsPath = o.metricsPath
	}
	if flags.Changed("collect-interval") {
		cfg.CollectInterval = o.collectInterval
	}
	if flags.Changed("no-mcp") {
		cfg.MCPEnabled = !o.noMCP
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting mdstat exporter", "version", version, "commit", commit)

	// Perform one-time system detection
	sysInfo := system.New(cfg.MDStatPath).Detect()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	source := mdstat.NewFileSource(cfg.MDStatPath)
	c := collector.New(m, source, cfg.CollectInterval)

	var enricher tools.SoftwareRAIDToolInterface
	if cfg.MdadmEnrich && sysInfo.CanEnrich() {
		enricher = tools.NewMdadmTool()
	}
	healthService := health.New(c, sysInfo, enricher, version)
	querier := mdstat.NewQuerier(source, mdstat.LogSink{Logger: slog.Default()})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newMux(cfg, sysInfo, reg, healthService, querier),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Start(gctx)
	})
	g.Go(func() error {
		slog.Info("starting HTTP server", "addr", srv.Addr, "metrics_path", cfg.MetricsPath, "mcp", cfg.MCPEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newMux configures HTTP routes
func newMux(cfg *config.Config, sysInfo *system.SystemInfo, gatherer prometheus.Gatherer, healthService *health.Service, querier *mdstat.Querier) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle(cfg.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if cfg.MCPEnabled {
		mux.Handle(cfg.MCPPath, server.NewStreamableHTTPServer(mcptools.NewServer(querier, version)))
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
		<html>
		<head><title>mdstat Exporter</title></head>
		<body>
		<h1>Linux Software RAID Prometheus Exporter</h1>
		<p><a href="%s">Metrics</a></p>
		<p><a href="/health">Health Check</a></p>
		<p><a href="/health/json">Health JSON</a></p>
		<p>Version: %s</p>
		<p>Collect Interval: %s</p>
		<h3>System Information</h3>
		<p>Platform: %s</p>
		<p>md status file: %s</p>
		<p>RAID Support: %v</p>
		<p>mdadm Enrichment: %v</p>
		</body>
		</html>
		`, cfg.MetricsPath, versionString(), cfg.CollectInterval, sysInfo.Platform, cfg.MDStatPath, sysInfo.CanMonitorRAID(), cfg.MdadmEnrich && sysInfo.CanEnrich())
	})

	// Basic health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"%s"}`, appName)
	})

	// Detailed JSON health endpoint
	mux.HandleFunc("/health/json", func(w http.ResponseWriter, r *http.Request) {
		healthData := healthService.GetHealthData(r.Context())

		jsonData, err := json.MarshalIndent(healthData, "", "  ")
		if err != nil {
			http.Error(w, "Failed to generate JSON", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(jsonData); err != nil {
			slog.Debug("failed to write health response", "error", err)
		}
	})

	return mux
}
