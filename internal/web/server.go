// Package web serves the report and work-time use cases over HTTP.
package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/service"
)

const (
	maxBodySize     = 1 << 20 // 1MB
	shutdownTimeout = 10 * time.Second
)

// Services are the use cases exposed by the API. Nil members leave their
// routes unregistered.
type Services struct {
	Reports   service.ReportService
	Commits   app.ListCommitsUseCase
	WorkTime  app.WorkTimeUseCase
	Templates service.TemplateService
}

// Server is the nippo HTTP API.
type Server struct {
	svc      Services
	resolver *datewindow.Resolver
	router   *gin.Engine
	logger   *slog.Logger
}

// NewServer creates a server with every route registered.
func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	router := gin.New()

	s := &Server{
		svc:      svc,
		resolver: datewindow.NewResolver(),
		router:   router,
		logger:   logger,
	}

	router.Use(gin.Recovery(), s.requestLogger(), limitBody(maxBodySize))
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api", bearerToken())
	if svc.Reports != nil {
		api.POST("/reports", s.handleGenerateReport)
		api.POST("/reports/prompt", s.handlePreviewReport)
		api.GET("/reports", s.handleListReports)
		api.GET("/reports/:id", s.handleGetReport)
	}
	if svc.Commits != nil {
		api.GET("/repos/:owner/:repo/commits", s.handleListCommits)
	}
	if svc.WorkTime != nil {
		api.GET("/worktime", s.handleListWorkTime)
		api.GET("/worktime/current", s.handleCurrentWorkTime)
		api.POST("/worktime/start", s.handleStartWorkTime)
		api.POST("/worktime/stop", s.handleStopWorkTime)
		api.PUT("/worktime/:id", s.handleEditWorkTime)
		api.DELETE("/worktime/:id", s.handleDeleteWorkTime)
	}
	if svc.Templates != nil {
		api.GET("/templates/:type", s.handleShowTemplate)
		api.GET("/templates/:type/variables", s.handleListVariables)
		api.PUT("/templates/:type/variables/:name", s.handleSetVariable)
		api.DELETE("/templates/:type/variables/:name", s.handleDeleteVariable)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server_shutdown", "addr", addr)
	return srv.Shutdown(shutdownCtx)
}
