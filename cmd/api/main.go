package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/apiconnect/internal/config"
	"github.com/hamed0406/apiconnect/internal/httpapi"
	"github.com/hamed0406/apiconnect/internal/logging"
	"github.com/hamed0406/apiconnect/internal/notify"
	"github.com/hamed0406/apiconnect/internal/probe"
	"github.com/hamed0406/apiconnect/internal/telemetry"
)

var _ probe.Notifier = (*notify.Slack)(nil)

func main() {
	dotenvErr := config.LoadDotenv()
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Console: true})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	// Bad values are logged, not fatal; probes report what they cannot use.
	for _, e := range multierr.Errors(multierr.Append(dotenvErr, cfg.Validate())) {
		logger.Warn("config_invalid", zap.Error(e))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, "apiconnect")
	if err != nil {
		logger.Warn("tracing_disabled", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []probe.Option{
		probe.WithMetrics(probe.NewMetrics(reg)),
		probe.WithDNSDiagnostics(cfg.DNSDiagnostics),
	}
	if cfg.ProbeTimeout > 0 {
		opts = append(opts, probe.WithHTTPClient(&http.Client{Timeout: cfg.ProbeTimeout}))
	}
	if slack := notify.NewSlack(cfg.SlackWebhook, nil); slack != nil {
		opts = append(opts, probe.WithNotifier(slack))
	}
	prober := probe.NewProber(logger, cfg.Credentials, opts...)

	api := httpapi.NewServer(logger, prober, probe.Vendors(probe.DefaultEndpoints()), reg)
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.Router(httpapi.RouterOptions{
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimitRPM:   cfg.RateLimitRPM,
			RateLimitBurst: cfg.RateLimitBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_listen_failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("api_shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := multierr.Combine(srv.Shutdown(shutdownCtx), shutdownTracing(shutdownCtx)); err != nil {
		logger.Warn("shutdown_incomplete", zap.Error(err))
	}
}
