package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/vault/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind     = "bind"
	flagDebug    = "debug"
	flagMetrics  = "metrics"
	flagLogLevel = "log_level"
	flagLogFile  = "log_file"
)

// parseFlags applies the start flags on top of given configuration.
func parseFlags(cfg Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&cfg.Bind, flagBind, cfg.Bind, "address server listens on")
	startFlags.BoolVar(&cfg.Debug, flagDebug, cfg.Debug, "call stack returned on error")
	startFlags.StringVar(&cfg.Metrics, flagMetrics, cfg.Metrics, "address of the prometheus endpoint, empty to disable")
	startFlags.StringVar(&cfg.LogLevel, flagLogLevel, cfg.LogLevel, "one of debug, info, error or none")
	startFlags.StringVar(&cfg.LogFile, flagLogFile, cfg.LogFile, "write logs to a rotated file instead of stdout")
	if err := startFlags.Parse(args); err != nil {
		return cfg, errors.Wrap(errors.ErrInput, err.Error())
	}
	return cfg, cfg.Validate()
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags.
// Registerer is nil when metrics are disabled.
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until the process receives an interrupt or termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	cfg, err := LoadConfig(home)
	if err != nil {
		return err
	}
	cfg, err = parseFlags(cfg, args)
	if err != nil {
		return err
	}

	logger, closer, err := cfg.newLogger(logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		select {
		case s := <-sig:
			logger.Info("Received signal", "signal", s.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return run(ctx, gen, cfg, logger, home)
}

// run serves the application until given context is cancelled.
func run(ctx context.Context, gen AppGenerator, cfg Config, logger log.Logger, home string) error {
	var (
		reg        prometheus.Registerer
		registry   *prometheus.Registry
		metricsSrv *http.Server
	)
	if cfg.Metrics != "" {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		)
		reg = registry
	}

	app, err := gen(home, logger, cfg.Debug, reg)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", cfg.Bind)
	svr, err := server.NewServer(cfg.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}
	defer svr.Stop()

	if registry != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: cfg.Metrics, Handler: mux}
		go func() {
			logger.Info("Serving metrics", "addr", cfg.Metrics)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Stopping ABCI app")

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown", "err", err)
		}
	}
	return nil
}
