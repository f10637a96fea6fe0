package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/models"
)

// Server exposes an engine.Service over HTTP.
type Server struct {
	service engine.Service
	health  func() error
	router  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithHealthCheck wires GET /healthz to check.
func WithHealthCheck(check func() error) Option {
	return func(s *Server) {
		s.health = check
	}
}

// WithRequestLog enables gin's request logger.
func WithRequestLog() Option {
	return func(s *Server) {
		s.router.Use(gin.Logger())
	}
}

// New builds the router for service.
func New(service engine.Service, opts ...Option) *Server {
	s := &Server{service: service, router: gin.New()}
	s.router.Use(gin.Recovery())
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.GET("/healthz", s.healthz)

	r.GET("/projects", s.listProjects)
	r.POST("/projects", s.createProject)
	r.GET("/projects/:project", s.getProject)
	r.PATCH("/projects/:project", s.updateProject)
	r.DELETE("/projects/:project", s.deleteProject)

	r.GET("/projects/:project/tasks", s.listTasks)
	r.POST("/projects/:project/tasks", s.createTask)
	r.GET("/projects/:project/tasks/:task", s.getTask)
	r.PATCH("/projects/:project/tasks/:task", s.updateTask)
	r.DELETE("/projects/:project/tasks/:task", s.deleteTask)

	r.GET("/tags", s.listTags)
	r.POST("/tags", s.createTag)
	r.GET("/tags/:tag", s.getTag)
	r.PATCH("/tags/:tag", s.updateTag)
	r.DELETE("/tags/:tag", s.deleteTag)

	timer := r.Group("/timer")
	{
		timer.POST("/start/:project", s.startTimer)
		timer.POST("/start/:project/:task", s.startTimer)
		timer.POST("/stop", s.stopTimer)
		timer.GET("/status", s.timerStatus)
		timer.GET("/today", s.today)
		timer.GET("/report", s.report)
	}
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Detail  string `json:"detail"`
	Kind    string `json:"kind,omitempty"`
	Model   string `json:"model,omitempty"`
	Ref     string `json:"ref,omitempty"`
	Project string `json:"project,omitempty"`
	Task    string `json:"task,omitempty"`
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrAmbiguous):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyExists), errors.Is(err, models.ErrTimerAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidColor),
		errors.Is(err, models.ErrInvalidConfiguration),
		errors.Is(err, models.ErrNoDefaultTask),
		errors.Is(err, models.ErrTimerIsNotRunning):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	body := errorResponse{Detail: err.Error(), Kind: models.KindName(err)}
	var merr *models.Error
	if errors.As(err, &merr) {
		body.Model, body.Ref = merr.Model, merr.Ref
		body.Project, body.Task = merr.Project, merr.Task
	}
	c.JSON(status, body)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error(), Kind: models.KindName(models.ErrValidation)})
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "detail": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
