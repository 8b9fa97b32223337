package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"staffdir/internal/directory/fetcher"
	"staffdir/internal/directory/handler"
	"staffdir/internal/directory/metrics"
	"staffdir/internal/directory/service"
	"staffdir/internal/directory/tracer"
	"staffdir/internal/platform/config"
	"staffdir/internal/platform/health"
	"staffdir/internal/platform/logger"
	httptransport "staffdir/internal/transport/http"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile, addr string

	cmd := &cobra.Command{
		Use:   "staffdir",
		Short: "Serve a browsable directory of randomly generated people",
		Long: `staffdir loads one batch of people from the randomuser.me API at startup
and serves a searchable card gallery with a detail modal.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New(cfgFile)
			if err != nil {
				return err
			}
			if addr != "" {
				v.Set("server.addr", addr)
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./staffdir.yaml)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

// run wires high-level dependencies, starts the HTTP server and the one-shot
// directory load, and keeps the server lifecycle small.
func run(ctx context.Context, cfg *config.Config) error {
	level, _ := config.ParseLevel(cfg.Log.Level)
	log := logger.New(level)
	slog.SetDefault(log)

	trc := tracer.NewOTel()
	requestURL := fetcher.BuildRequestURL(cfg.API.BaseURL,
		fetcher.QueryParams(cfg.API.Fields, cfg.API.Results, cfg.API.Nationalities))
	client := fetcher.New(requestURL, cfg.API.Timeout,
		fetcher.WithTracer(trc),
		fetcher.WithUserAgent(cfg.API.UserAgent),
	)

	m := metrics.New()
	dir, err := service.New(client,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithTracer(trc),
	)
	if err != nil {
		return fmt.Errorf("init directory: %w", err)
	}

	healthHandler := health.New(cfg.Server.Environment)
	healthHandler.RegisterCheck("directory", func(context.Context) error {
		return dir.Ready()
	})

	router := httptransport.NewRouter(log, cfg.Server.RequestTimeout, prometheus.DefaultGatherer,
		healthHandler,
		handler.New(dir, log),
	)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("initializing staffdir",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"upstream", client.URL(),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// A failed load is reported by the directory and the readiness check;
		// the server keeps serving the placeholder.
		_ = dir.Load(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
