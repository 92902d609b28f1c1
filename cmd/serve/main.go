package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"github.com/danielpatrickdp/uqrc-engine/internal/rpc"
	"github.com/danielpatrickdp/uqrc-engine/internal/session"
	"github.com/danielpatrickdp/uqrc-engine/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

var (
	configPath string
	noMetrics  bool

	rootCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve one engine session over gRPC",
		Long:  `Opens a session from the config and serves Turn, Readiness and AddHook over gRPC, with Prometheus metrics on a separate listener.`,
		RunE:  run,
	}
)

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", envOr("UQRC_CONFIG", "uqrc.yaml"), "path to config file")
	rootCmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the metrics listener")
}

// #region main
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collectors := telemetry.New()
	sess, logger, err := session.Bootstrap(configPath, orchestrator.WithObserver(collectors))
	if err != nil {
		return err
	}
	defer sess.Close()
	defer logger.Sync()

	lis, err := net.Listen("tcp", sess.Config.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", sess.Config.Server.GRPCAddr, err)
	}

	server, healthServer := newGRPCServer(sess, logger)

	var metricsServer *http.Server
	if !noMetrics {
		metricsServer = collectors.NewServer(sess.Config.Server.MetricsAddr)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server exited", zap.Error(err))
			}
		}()
	}

	go func() {
		<-ctx.Done()
		logger.Info("received shutdown signal")
		healthServer.Shutdown()
		server.GracefulStop()
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics shutdown", zap.Error(err))
			}
		}
	}()

	logger.Info("starting grpc server",
		zap.String("addr", lis.Addr().String()),
		zap.String("metrics", sess.Config.Server.MetricsAddr),
		zap.Int("step", sess.State.Step))
	if err := server.Serve(lis); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// #endregion main

// #region server
func newGRPCServer(sess *session.Session, logger *zap.Logger) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	rpc.Register(server, rpc.NewServer(sess, logger.Named("rpc")))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(rpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(server)
	return server, healthServer
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc", fields...)
		}
		return resp, err
	}
}

// #endregion server

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
