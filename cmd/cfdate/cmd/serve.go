package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blockberries/cfdate/convert"
	cfdategrpc "github.com/blockberries/cfdate/grpc"
	"github.com/blockberries/cfdate/observability"
	"github.com/blockberries/cfdate/observability/prom"
	"github.com/blockberries/cfdate/server"
)

var (
	serveGRPCAddr    string
	serveMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cfdate gRPC server",
	Long: `Run the converter as a gRPC service.

Prometheus metrics are served on the metrics address under /metrics.
An empty --metrics-addr disables the metrics listener.

Examples:
  cfdate serve
  cfdate serve --grpc-addr :7070 --metrics-addr :9090`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("grpc-addr") {
			appConfig.Server.GRPCAddr = serveGRPCAddr
		}
		if cmd.Flags().Changed("metrics-addr") {
			appConfig.Server.MetricsAddr = serveMetricsAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveGRPCAddr, "grpc-addr", "", "gRPC listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "metrics listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServer(ctx context.Context) error {
	cfg := appConfig.Server

	reg := prom.NewRegistry()
	gsrv := cfdategrpc.NewGRPCServer(
		convert.New(convert.WithWorkers(appConfig.Convert.Workers)),
		server.WithLogger(logger),
		server.WithMaxElements(cfg.MaxElements),
		server.WithObserver(newObserver(cfg.MetricsAddr, reg)),
	)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}
	gs := grpc.NewServer()
	gsrv.Register(gs)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("grpc server listening", "addr", lis.Addr().String())
		if err := gs.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var metrics *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler(reg))
		metrics = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			logger.Info("metrics server listening", "addr", cfg.MetricsAddr)
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down", "timeout", cfg.ShutdownTimeout.Duration)
	case runErr = <-errCh:
		logger.Error("server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		gsrv.Stop(gs)
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		logger.Warn("graceful stop timed out, forcing")
		gs.Stop()
		<-stopped
	}

	if metrics != nil {
		if err := metrics.Shutdown(shutdownCtx); err != nil && runErr == nil {
			runErr = fmt.Errorf("metrics shutdown: %w", err)
		}
	}
	return runErr
}

// newObserver returns the server's observer. It stays a no-op unless a
// metrics listener is configured, in which case Prometheus metrics are
// registered on reg.
func newObserver(metricsAddr string, reg *prometheus.Registry) *observability.AtomicConvertObserver {
	obs := observability.NewAtomicConvertObserver()
	if metricsAddr != "" {
		obs.Set(prom.NewConvertObserver(reg))
	}
	return obs
}
