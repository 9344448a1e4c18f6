package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"academix/internal/certificate/handler"
	"academix/internal/platform/config"
	"academix/internal/platform/health"
	adminmw "academix/pkg/platform/middleware/admin"
	authmw "academix/pkg/platform/middleware/auth"
	request "academix/pkg/platform/middleware/request"
	"academix/pkg/platform/middleware/requesttime"
)

type routerDeps struct {
	cfg       config.Server
	logger    *slog.Logger
	certs     *handler.Handler
	health    *health.Handler
	validator authmw.JWTValidator
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(d.logger))
	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.logger))
	r.Use(request.Timeout(d.cfg.RequestTimeout))
	r.Use(request.LatencyMiddleware(request.NewMetrics()))

	d.health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	d.certs.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(d.validator, d.logger, authmw.WithAdminToken(d.cfg.AdminToken)))
		d.certs.RegisterIssuer(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(d.cfg.AdminToken, d.logger))
		d.certs.RegisterAdmin(r)
	})

	return r
}
