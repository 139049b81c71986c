package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	httphandler "github.com/kjstillabower/sentinel-predict-service/internal/http"
	"github.com/kjstillabower/sentinel-predict-service/internal/lifecycle"
	"github.com/kjstillabower/sentinel-predict-service/internal/observability"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, opts)
		},
	}
}

func runServer(ctx context.Context, opts *rootOptions) error {
	logger, err := observability.NewLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	stack, err := buildStack(cfg)
	if err != nil {
		return err
	}

	mode := httphandler.ModeAPIOnly
	static, ok := httphandler.StaticFS(cfg.StaticDir)
	if ok {
		mode = httphandler.ModeIntegrated
		logger.Info("serving dashboard", zap.String("dir", cfg.StaticDir))
	} else {
		logger.Warn("static folder not found; running in API-only mode", zap.String("dir", cfg.StaticDir))
	}

	seedMode := "entropy"
	if cfg.RandomSeed != 0 {
		seedMode = "seeded"
	}
	logger.Info("prediction engine ready",
		zap.Strings("facilities", stack.table.IDs()),
		zap.String("random", seedMode),
		zap.Bool("heartbeat_alert", cfg.AlertHeartbeat),
		zap.String("alert_timezone", cfg.AlertTimezone),
		zap.String("mode", mode))

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	observability.RegisterRateLimitGauges(cfg.OverloadWindow)
	observability.SetTrackedFacilities(cfg.TrackedFacilities)

	handler := httphandler.NewHandler(stack.service, &httphandler.HealthConfig{
		OverloadWindow:       cfg.OverloadWindow,
		OverloadThresholdPct: cfg.OverloadThresholdPct,
		RateLimitRPS:         cfg.RateLimitRPS,
		DegradedWindow:       cfg.DegradedWindow,
		DegradedErrorPct:     cfg.DegradedErrorPct,
		Mode:                 mode,
		Version:              version,
	}, logger, cfg.HospitalIDMaxLength)

	router := httphandler.NewRouter(httphandler.RouterConfig{
		Handler:        handler,
		Logger:         logger,
		Limiter:        limiter,
		RequestTimeout: cfg.RequestTimeout,
		Static:         static,
		CORSOrigins:    cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
	}

	lifecycle.MarkStarted(cfg.ReadyDelay)
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}
