package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/admin"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/api"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/config"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/metrics"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/middleware"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/seed"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/store"
)

// backend is what both services need from a storage adapter.
type backend interface {
	rsvp.Store
	gallery.Store
	io.Closer
}

func main() {
	cfg := config.Load()

	log.SetFormatter(&log.JSONFormatter{})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	gin.SetMode(cfg.GinMode)

	db, err := openBackend(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	swagger, err := api.GetSwagger()
	if err != nil {
		log.WithError(err).Fatal("failed to load embedded swagger spec")
	}

	validator, err := middleware.NewOpenAPIValidator(swagger)
	if err != nil {
		log.WithError(err).Fatal("failed to create openapi validator")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.NewRequestLogger("public"))
	r.Use(middleware.NewMetrics(m, "public"))
	r.Use(middleware.NewCORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))
	r.Use(validator)

	handler := api.NewHandler(db, db, m)
	api.RegisterHandlers(r, handler)

	srv := &http.Server{
		Handler:           r,
		Addr:              net.JoinHostPort("0.0.0.0", cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
	}

	adminRouter := gin.New()
	adminRouter.Use(gin.Recovery())
	adminRouter.Use(middleware.NewRequestLogger("admin"))
	adminRouter.Use(middleware.NewMetrics(m, "admin"))

	adminHandler := admin.NewHandler(db, db, cfg.PublicBaseURL)
	admin.RegisterHandlers(adminRouter, adminHandler)
	adminRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	adminSrv := &http.Server{
		Handler:           adminRouter,
		Addr:              net.JoinHostPort("0.0.0.0", cfg.AdminPort),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	go func() {
		log.WithField("addr", adminSrv.Addr).Info("starting admin server")
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("admin server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", fmt.Sprintf("%v", sig)).Info("shutting down servers")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	if err := adminSrv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("admin server shutdown error")
	}
}

// openBackend picks the embedded bbolt store in demo mode or when no
// database URL is configured, and postgres otherwise. Only the demo store
// is seeded.
func openBackend(cfg *config.Config) (backend, error) {
	if !cfg.UseDemoStore() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		log.Info("using postgres store")
		return pg, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	bboltStore, err := store.NewBBoltStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt store: %w", err)
	}
	if err := seed.LoadFromFile(cfg.SeedFile, bboltStore); err != nil {
		bboltStore.Close()
		return nil, fmt.Errorf("seeding demo data: %w", err)
	}
	log.WithField("path", cfg.DBPath).Info("using bbolt demo store")
	return bboltStore, nil
}
