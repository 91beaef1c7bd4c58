package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeJamon/goIAZO/internal/config"
	"github.com/LeJamon/goIAZO/internal/core/registry"
	"github.com/LeJamon/goIAZO/internal/di"
	"github.com/LeJamon/goIAZO/internal/storage/relationaldb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the iazod daemon",
	Long: `Start the iazod daemon which provides:
- the sale database and governance settings bootstrap
- a health check endpoint
- a Prometheus metrics endpoint
- the optional keeper finalizing successful sales

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(cmd, args)
	}
}

// pinger is satisfied by the relational sale index.
type pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Sales   uint64 `json:"sales"`
	Index   string `json:"index,omitempty"`
	Error   string `json:"error,omitempty"`
}

// newHandler builds the daemon's HTTP surface. idx may be nil.
func newHandler(reg *registry.Registry, idx pinger, metrics *prometheus.Registry, cfg config.MetricsConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Service: "iazod"}
		code := http.StatusOK

		count, err := reg.Count(r.Context())
		if err != nil {
			resp.Status, resp.Error = "error", err.Error()
			code = http.StatusServiceUnavailable
		}
		resp.Sales = count

		if idx != nil {
			resp.Index = "ok"
			if err := idx.Ping(r.Context()); err != nil {
				resp.Index = "unreachable"
				resp.Status = "degraded"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	})
	if cfg.Enabled {
		mux.Handle(cfg.Path, promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))
	}
	return mux
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container := di.New()
	if err := di.NewProvider(container, cfg).RegisterAll(); err != nil {
		return err
	}
	defer container.Close()

	logger, err := di.Resolve[*zap.Logger](container, di.ServiceLogger)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	reg, err := di.Resolve[*registry.Registry](container, di.ServiceRegistry)
	if err != nil {
		return err
	}
	metrics, err := di.Resolve[*prometheus.Registry](container, di.ServiceMetrics)
	if err != nil {
		return err
	}
	var idx pinger
	if container.Has(di.ServiceSaleIndex) {
		saleIndex, err := di.Resolve[*relationaldb.SaleIndex](container, di.ServiceSaleIndex)
		if err != nil {
			return err
		}
		idx = saleIndex
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	count, err := reg.Count(ctx)
	if err != nil {
		return err
	}
	logger.Info("iazod started",
		zap.String("backend", cfg.Database.Backend),
		zap.Uint64("sales", count),
		zap.Bool("index", idx != nil))

	keeperDone := make(chan struct{})
	if cfg.Keeper.Enabled {
		go func() {
			defer close(keeperDone)
			reg.RunKeeper(ctx, cfg.Keeper.Interval)
		}()
	} else {
		close(keeperDone)
	}

	srv := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newHandler(reg, idx, metrics, cfg.Metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "iazod listening on %s\n", cfg.Metrics.Address)
	}

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			logger.Error("http server failed", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("http shutdown", zap.Error(shutdownErr))
	}
	<-keeperDone
	logger.Info("iazod stopped")
	return err
}
