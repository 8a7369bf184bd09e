package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/EuroplacerUk/hermes-sdk/configsvc"
	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/metrics"
	"github.com/EuroplacerUk/hermes-sdk/session"
	"github.com/EuroplacerUk/hermes-sdk/supervisor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Hermes lanes, vertical service and configuration service",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *Config) error {
	base := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		base.SetLevel(lvl)
	}
	log := logger.New(base)

	reg := prometheus.NewRegistry()
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(reg)
	}

	var downstream, upstream *supervisor.SinglePeer
	var vertical *supervisor.MultiPeer
	var cfgsvc *configsvc.Service

	if cfg.Downstream.Enabled {
		downstream = supervisor.NewSinglePeer(&laneHandler{role: "downstream", metrics: m, verbose: verbose}, log)
		downstream.SetMetrics(m)
		downstream.Enable(cfg.Downstream.settings(session.RoleDownstream))
	}
	if cfg.Upstream.Enabled {
		upstream = supervisor.NewSinglePeer(&laneHandler{role: "upstream", metrics: m, verbose: verbose}, log)
		upstream.SetMetrics(m)
		upstream.Enable(cfg.Upstream.settings(session.RoleUpstream))
	}
	if cfg.Vertical.Enabled {
		vertical = supervisor.NewMultiPeer(&verticalHandler{role: "vertical", metrics: m, verbose: verbose}, log)
		vertical.SetMetrics(m)
		vertical.Enable(cfg.Vertical.settings())
	}
	if cfg.ConfigService.Enabled {
		cfgsvc = configsvc.NewService(newMemConfigStore(), log)
		cfgsvc.SetMetrics(m)
		cfgsvc.Enable(cfg.ConfigService.settings())
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Metrics.Port), Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				printTrace(0, logger.ErrorTrace, "metrics server: "+err.Error(), verbose)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	printTrace(0, logger.Info, "shutting down", verbose)
	if downstream != nil {
		downstream.Stop()
	}
	if upstream != nil {
		upstream.Stop()
	}
	if vertical != nil {
		vertical.Stop()
	}
	if cfgsvc != nil {
		cfgsvc.Stop()
	}
	if metricsSrv != nil {
		_ = metricsSrv.Close()
	}
	return nil
}
