// Package server assembles the HTTP router and owns the listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"clinic-admin-backend/internal/config"
	"clinic-admin-backend/internal/database"
	"clinic-admin-backend/internal/handler"
	"clinic-admin-backend/internal/middleware"
	"clinic-admin-backend/internal/repository"
	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *slog.Logger
	router *gin.Engine
}

// New wires repositories, services and handlers onto a gin router
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	jwt := utils.NewJWTManager(s.cfg.JWT.SecretKey, s.cfg.JWT.AccessTokenExpiry, s.cfg.JWT.RefreshTokenExpiry)

	// Repositories
	userRepo := repository.NewUserRepo(s.db)
	specialtyRepo := repository.NewSpecialtyRepo(s.db)
	doctorRepo := repository.NewDoctorRepo(s.db)
	patientRepo := repository.NewPatientRepo(s.db)
	appointmentRepo := repository.NewAppointmentRepo(s.db)

	// Services
	authService := service.NewAuthService(userRepo, jwt, s.logger)
	specialtyService := service.NewSpecialtyService(specialtyRepo, s.logger)
	doctorService := service.NewDoctorService(doctorRepo, specialtyRepo, s.logger)
	patientService := service.NewPatientService(patientRepo, s.logger)
	appointmentService := service.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, s.logger)
	dashboardService := service.NewDashboardService(patientRepo, doctorRepo, appointmentRepo, specialtyRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, s.cfg.IsProduction())
	specialtyHandler := handler.NewSpecialtyHandler(specialtyService)
	doctorHandler := handler.NewDoctorHandler(doctorService)
	patientHandler := handler.NewPatientHandler(patientService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(s.logger),
		metrics.Middleware(),
		middleware.AllowedHosts(s.cfg.Server.AllowedHosts),
		middleware.CORS(s.cfg),
	)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if err := database.Ping(s.db); err != nil {
			s.logger.ErrorContext(c.Request.Context(), "health check failed", "error", err)
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "clinic-admin-backend",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// Clinic routes (authenticated)
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwt))
	{
		api.GET("/dashboard", dashboardHandler.GetCounts)

		api.GET("/specialties", specialtyHandler.List)
		api.POST("/specialties", specialtyHandler.Create)
		api.GET("/specialties/:id", specialtyHandler.Get)
		api.PUT("/specialties/:id", specialtyHandler.Update)
		api.DELETE("/specialties/:id", specialtyHandler.Delete)
		api.POST("/specialties/:id/restore", specialtyHandler.Restore)

		api.GET("/doctors", doctorHandler.List)
		api.POST("/doctors", doctorHandler.Create)
		api.GET("/doctors/:id", doctorHandler.Get)
		api.PUT("/doctors/:id", doctorHandler.Update)
		api.DELETE("/doctors/:id", doctorHandler.Delete)
		api.POST("/doctors/:id/restore", doctorHandler.Restore)

		api.GET("/patients", patientHandler.List)
		api.POST("/patients", patientHandler.Create)
		api.GET("/patients/:id", patientHandler.Get)
		api.PUT("/patients/:id", patientHandler.Update)
		api.DELETE("/patients/:id", patientHandler.Delete)
		api.POST("/patients/:id/restore", patientHandler.Restore)

		api.GET("/appointments", appointmentHandler.List)
		api.POST("/appointments", appointmentHandler.Create)
		api.GET("/appointments/:id", appointmentHandler.Get)
		api.PUT("/appointments/:id", appointmentHandler.Update)
		api.DELETE("/appointments/:id", appointmentHandler.Delete)
		api.POST("/appointments/:id/restore", appointmentHandler.Restore)
	}

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "port", s.cfg.Server.Port, "env", s.cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("Server exited")
	return nil
}
