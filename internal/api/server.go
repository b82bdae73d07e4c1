package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/zxrrcpandey/rahulops/internal/api/handler"
	mw "github.com/zxrrcpandey/rahulops/internal/api/middleware"
	"github.com/zxrrcpandey/rahulops/internal/config"
	"github.com/zxrrcpandey/rahulops/internal/core"
)

type Server struct {
	router         chi.Router
	logger         zerolog.Logger
	services       *core.Services
	corePool       *pgxpool.Pool
	temporalClient temporalclient.Client
	cfg            *config.Config
}

func NewServer(logger zerolog.Logger, coreDB *pgxpool.Pool, temporalClient temporalclient.Client, cfg *config.Config) *Server {
	services := core.NewServices(coreDB, temporalClient)

	s := &Server{
		router:         chi.NewRouter(),
		logger:         logger,
		services:       services,
		corePool:       coreDB,
		temporalClient: temporalClient,
		cfg:            cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Dashboard
		dashboard := handler.NewDashboard(s.services.Dashboard)
		r.Get("/dashboard/stats", dashboard.Stats)

		// Hosts
		host := handler.NewHost(s.services.Host)
		r.Get("/hosts", host.List)
		r.Post("/hosts", host.Register)
		r.Get("/hosts/{id}", host.Get)
		r.Post("/hosts/{id}/setup", host.StartSetup)
		r.Delete("/hosts/{id}", host.MarkOffline)

		// Clients
		client := handler.NewClient(s.services.Client)
		r.Get("/clients", client.List)
		r.Post("/clients", client.Create)
		r.Get("/clients/{id}", client.Get)
		r.Put("/clients/{id}", client.Update)

		// Sites
		site := handler.NewSite(s.services.Site, s.services.Subscription)
		r.Get("/sites", site.List)
		r.Post("/sites", site.Create)
		r.Get("/sites/{id}", site.Get)
		r.Delete("/sites/{id}", site.Delete)
		r.Post("/sites/{id}/suspend", site.Suspend)
		r.Post("/sites/{id}/reactivate", site.Reactivate)

		// Deployment jobs
		job := handler.NewJob(s.services.Job)
		r.Post("/sites/{siteID}/deployments", job.RequestDeployment)
		r.Get("/sites/{siteID}/jobs", job.ListBySite)
		r.Get("/jobs/{id}", job.Get)
		r.Post("/jobs/{id}/cancel", job.Cancel)

		// Backups
		backup := handler.NewBackup(s.services.Backup)
		r.Get("/sites/{siteID}/backups", backup.ListBySite)
		r.Post("/sites/{siteID}/backups", backup.Create)
		r.Get("/backups/{id}", backup.Get)
		r.Get("/sites/{siteID}/backup-schedules", backup.ListSchedules)
		r.Put("/sites/{siteID}/backup-schedules", backup.UpsertSchedule)

		// Activity log
		activity := handler.NewActivity(s.services.ActivityLog)
		r.Get("/activity/{entityType}/{entityID}", activity.ListByEntity)

		// Settings
		settings := handler.NewSettings(s.services.Settings)
		r.Get("/settings/suspension-policy", settings.GetSuspensionPolicy)
		r.Put("/settings/suspension-policy", settings.UpdateSuspensionPolicy)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.corePool.Ping(ctx); err != nil {
		checks["core_db"] = err.Error()
		healthy = false
	} else {
		checks["core_db"] = "ok"
	}

	if _, err := s.temporalClient.CheckHealth(ctx, &temporalclient.CheckHealthRequest{}); err != nil {
		checks["temporal"] = err.Error()
		healthy = false
	} else {
		checks["temporal"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
