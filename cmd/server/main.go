package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ibreez3/socratic-relay/config"
	"github.com/ibreez3/socratic-relay/metrics"
	"github.com/ibreez3/socratic-relay/openai"
	"github.com/ibreez3/socratic-relay/service"
	"github.com/ibreez3/socratic-relay/tutor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:          "tutor-server",
		Short:        "Socratic DSA tutor chat relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default ./config.yaml or ./config/config.yaml)")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	log, err := service.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	var gen tutor.Generator
	switch cfg.GenAI.Provider {
	case config.ProviderEcho:
		log.Warn("using echo provider, no upstream calls will be made")
		gen = tutor.NewEchoGenerator()
	default:
		gen = openai.NewClient(cfg.GenAI.APIKey, cfg.GenAI.BaseURL, cfg.GenAI.Model, cfg.RequestTimeout())
	}

	retrier := tutor.NewRetrier(cfg.GenAI.MaxRetries, cfg.RetryBackoff()).
		WithLogger(log.WithField("component", "retry")).
		WithMetrics(m)
	relay := tutor.NewRelay(gen, retrier, tutor.NewPromptBuilder(cfg.Conversation.MaxContextTurns)).
		WithLogger(log.WithField("component", "relay"))
	sessions := service.NewSessions(cfg.Conversation.MaxSessions, cfg.SessionTTL(), m)
	h := service.NewHandler(relay, sessions, cfg.Conversation.Mode, log, m)

	opts := service.RouterOptions{CORSOrigins: cfg.Server.CORSOrigins, Log: log}
	if cfg.Metrics.Enabled {
		opts.Gatherer = reg
		opts.MetricsPath = cfg.Metrics.Path
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: service.NewRouter(h, opts),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"provider": cfg.GenAI.Provider,
			"model":    cfg.GenAI.Model,
			"mode":     cfg.Conversation.Mode,
		}).Info("backend running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
