package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"petitionsigner/internal/identity"
	"petitionsigner/internal/normalize"
	"petitionsigner/internal/openlaw"
	"petitionsigner/internal/platform/config"
	"petitionsigner/internal/platform/health"
	"petitionsigner/internal/platform/logger"
	"petitionsigner/internal/platform/metrics"
	"petitionsigner/internal/platform/tracer"
	"petitionsigner/internal/reconcile"
	"petitionsigner/internal/signature"
	"petitionsigner/internal/submission"
	httptransport "petitionsigner/internal/transport/http"
	"petitionsigner/internal/workflow"
	"petitionsigner/pkg/platform/circuit"
)

// main wires the services, exposes the router and keeps the server lifecycle
// small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("initializing petition signer",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"openlaw_root", cfg.OpenLawRoot,
		"strict_dates", cfg.StrictDates,
	)

	router := buildRouter(cfg, log, prometheus.DefaultRegisterer, promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func buildRouter(cfg config.Server, log *slog.Logger, reg prometheus.Registerer, metricsHandler http.Handler) http.Handler {
	m := metrics.NewWithRegistry(reg)
	tr := tracer.NewOTel()

	breaker := circuit.New("openlaw", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2))
	remote := openlaw.New(cfg.OpenLawRoot, cfg.RemoteTimeout,
		openlaw.WithBreaker(breaker),
		openlaw.WithMetrics(m),
		openlaw.WithLogger(log),
	)

	normalizer := normalize.New(
		normalize.WithLocation(cfg.DateLocation),
		normalize.WithStrictDates(cfg.StrictDates),
		normalize.WithLogger(log),
	)
	submitter := submission.New(remote,
		submission.WithSendNotification(cfg.SendNotification),
		submission.WithLogger(log),
		submission.WithMetrics(m),
		submission.WithTracer(tr),
	)
	svc := workflow.New(
		identity.New(remote, identity.WithLogger(log), identity.WithMetrics(m), identity.WithTracer(tr)),
		normalizer,
		submitter,
		signature.New(signature.WithLogger(log), signature.WithMetrics(m), signature.WithTracer(tr)),
		reconcile.New(normalizer, submitter, reconcile.WithLogger(log), reconcile.WithMetrics(m), reconcile.WithTracer(tr)),
		remote,
		workflow.WithLogger(log),
	)

	probes := health.New(cfg.Environment)
	probes.RegisterCheck("openlaw", health.BreakerCheck(breaker))

	// Three upload tiers may each take the full remote timeout.
	router := httptransport.NewRouter(httptransport.NewHandler(svc, log), probes, log, m, 3*cfg.RemoteTimeout+5*time.Second)
	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler)
	}
	return router
}
