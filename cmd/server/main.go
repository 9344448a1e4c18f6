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

	"golang.org/x/sync/errgroup"

	"academix/internal/certificate/handler"
	"academix/internal/certificate/metrics"
	"academix/internal/certificate/service"
	"academix/internal/certificate/storage"
	"academix/internal/certificate/tracer"
	"academix/internal/certificate/workers/resume"
	jwttoken "academix/internal/jwt_token"
	"academix/internal/platform/config"
	"academix/internal/platform/health"
	"academix/internal/platform/logger"
	"academix/pkg/platform/circuit"
)

const redisStatsInterval = 15 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/certificate.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing academix",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
	)

	deps, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close(log)

	svc := service.New(
		deps.certificates,
		deps.academic,
		deps.ledger,
		storage.NewPinningGateway(cfg.Storage, storage.WithLogger(log)),
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithTracer(tracer.NewOTel()),
		service.WithDispatcher(deps.dispatcher),
		service.WithLedgerBreaker(circuit.New("ledger")),
		service.WithStageTimeout(cfg.Certificate.StageTimeout),
		service.WithNotifyTimeout(cfg.Notification.SendTimeout),
		service.WithResumeAfter(cfg.Certificate.ResumeAfter),
		service.WithValidity(cfg.Certificate.Validity),
		service.WithDefaultRecipient(cfg.Ledger.DefaultRecipient),
		service.WithIssuer(cfg.Certificate.Issuer),
		service.WithPortalBaseURL(cfg.Notification.PortalBaseURL),
	)

	healthHandler := health.New(cfg.Server.Environment)
	for name, check := range deps.checks {
		healthHandler.RegisterCheck(name, check)
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.TokenTTL)
	router := newRouter(routerDeps{
		cfg:       cfg.Server,
		logger:    log,
		certs:     handler.New(svc, log),
		health:    healthHandler,
		validator: jwttoken.NewValidator(jwtService),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var resumer *resume.Service
	if cfg.Certificate.ResumeInterval > 0 {
		resumer, err = resume.New(deps.certificates, svc,
			resume.WithInterval(cfg.Certificate.ResumeInterval),
			resume.WithIdleAfter(cfg.Certificate.ResumeAfter),
			resume.WithBatchSize(cfg.Certificate.ResumeBatchSize),
			resume.WithLogger(log),
		)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if resumer != nil {
		g.Go(func() error {
			return resumer.Start(gctx)
		})
	}
	if deps.redis != nil {
		g.Go(func() error {
			return deps.redis.RunPoolStatsRecorder(gctx, redisStatsInterval)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		svc.Wait()
		return err
	})

	return g.Wait()
}
