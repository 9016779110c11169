package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	gogrpc "google.golang.org/grpc"

	"clinicbook/internal/config"
	"clinicbook/internal/conflict"
	"clinicbook/internal/metrics"
	"clinicbook/internal/ratelimit"
	"clinicbook/internal/service/booking"
	"clinicbook/internal/service/directory"
	grpcTransport "clinicbook/internal/transport/grpc"
	"clinicbook/internal/transport/rest"
)

func serveCmd(configFile *string) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, log, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config, log *slog.Logger, migrate bool) error {
	scope, err := conflict.ParseScope(cfg.ConflictScope)
	if err != nil {
		return err
	}

	log.Info("starting",
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("conflict_scope", string(scope)),
		slog.Bool("reject_inverted", cfg.RejectInverted),
		slog.String("log_level", cfg.LogLevel),
	)

	st, err := openStores(ctx, cfg, log, migrate)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	locker, rdb, err := newLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis close failed", slog.Any("err", err))
			}
		}()
	}

	m := metrics.New("clinicbook", prometheus.DefaultRegisterer)
	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)

	bookingSvc := booking.NewService(st.appointments, booking.Options{
		Scope:         scope,
		AllowInverted: !cfg.RejectInverted,
		Locker:        locker,
		Metrics:       m,
		Logger:        log,
	})
	directorySvc := directory.NewService(st.directory)

	httpServer := rest.New(rest.Deps{
		Booking:   bookingSvc,
		Directory: directorySvc,
		Logger:    log,
		Limiter:   limiter,
		Gatherer:  prometheus.DefaultGatherer,
		Ready:     readiness(st, rdb),
	})
	grpcServer := grpcTransport.NewServer(
		grpcTransport.NewAppointmentsServer(bookingSvc, log),
		cfg.GRPCRequestTimeout,
		limiter,
	)

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		return err
	}

	if limiter.Enabled() {
		go limiter.Run(ctx)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, gogrpc.ErrServerStopped) {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		if err := httpServer.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	log.Info("servers started", slog.String("http_addr", cfg.HTTPAddr), slog.String("grpc_addr", cfg.GRPCAddr()))

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-errCh:
		log.Error("server stopped with error", slog.Any("err", runErr))
	}

	shutdown(log, grpcServer, httpServer, cfg.ShutdownTimeout)
	return runErr
}

func shutdown(log *slog.Logger, g *gogrpc.Server, e *echo.Echo, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Warn("http shutdown failed", slog.Any("err", err))
	}

	done := make(chan struct{})
	go func() {
		g.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		g.Stop()
	}
}
