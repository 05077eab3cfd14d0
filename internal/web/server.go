// Package web serves a browser front end for the scheduling service.
//
// The page is rendered on the server: the workload editor, the settings
// and the chosen algorithms are posted as a plain HTML form, run through
// the shared session pipeline, and the result is drawn as a flex-box Gantt
// bar with the metrics or comparison table underneath.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/schedviz/internal/metrics"
	"github.com/randomizedcoder/schedviz/internal/schedule"
	"github.com/randomizedcoder/schedviz/internal/session"
	"github.com/randomizedcoder/schedviz/internal/workload"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config configures a Server.
type Config struct {
	Session  *session.Session
	Settings session.Settings
	// Compare is the initially checked compare set.
	Compare []string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Timeout bounds each call made on behalf of a form post.
	Timeout time.Duration
	APIBase string
}

// Server is the gin web shell.
type Server struct {
	sess    *session.Session
	logger  *slog.Logger
	timeout time.Duration
	apiBase string
	engine  *gin.Engine

	mu       sync.Mutex
	settings session.Settings
	compare  []string
}

// New builds the gin engine and parses the page templates.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.Session == nil {
		return nil, errors.New("web: session is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &Server{
		sess:     cfg.Session,
		logger:   logger,
		timeout:  timeout,
		apiBase:  cfg.APIBase,
		settings: cfg.Settings,
		compare:  append([]string(nil), cfg.Compare...),
	}
	if s.settings.Algorithm == "" {
		s.settings.Algorithm = schedule.FCFS
	}
	if len(s.compare) == 0 {
		s.compare = append([]string(nil), schedule.DefaultAlgorithms...)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.handleIndex)
	engine.POST("/execute", s.handleExecute)
	engine.POST("/compare", s.handleCompare)
	engine.POST("/sample", s.handleSample)
	engine.POST("/rows", s.handleRows)
	engine.GET("/healthz", gin.WrapF(metrics.HealthHandler))
	if cfg.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))
	}

	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web_server_starting", "addr", addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("web_server_stopping")
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleIndex(c *gin.Context) {
	s.render(c, http.StatusOK, nil)
}

func (s *Server) handleExecute(c *gin.Context) {
	set, _, err := s.bind(c)
	if err != nil {
		s.render(c, http.StatusUnprocessableEntity, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	s.render(c, statusFor(s.sess.Execute(ctx, set)), nil)
}

func (s *Server) handleCompare(c *gin.Context) {
	set, algorithms, err := s.bind(c)
	if err != nil {
		s.render(c, http.StatusUnprocessableEntity, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	s.render(c, statusFor(s.sess.Compare(ctx, set, algorithms)), nil)
}

func (s *Server) handleSample(c *gin.Context) {
	s.sess.Clear()
	s.sess.Workload().Replace(workload.SampleRows())
	c.Redirect(http.StatusSeeOther, "/")
}

// handleRows keeps the edited rows and either removes the row named by
// the remove field or appends a blank one.
func (s *Server) handleRows(c *gin.Context) {
	var f runForm
	if err := c.ShouldBind(&f); err != nil {
		s.render(c, http.StatusBadRequest, err)
		return
	}
	if set, err := f.settings(); err == nil {
		s.remember(set, f.Algorithms)
	}
	wl := s.sess.Workload()
	wl.Replace(f.rows())
	if f.Remove == "" {
		wl.AddBlank()
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// bind stores the posted form as the current workload and settings.
func (s *Server) bind(c *gin.Context) (session.Settings, []string, error) {
	var f runForm
	if err := c.ShouldBind(&f); err != nil {
		return session.Settings{}, nil, err
	}

	s.sess.Workload().Replace(f.rows())

	set, err := f.settings()
	s.remember(set, f.Algorithms)
	if err != nil {
		s.sess.Clear()
		return set, nil, err
	}
	return set, f.Algorithms, nil
}

func (s *Server) remember(set session.Settings, compare []string) {
	s.mu.Lock()
	s.settings = set
	s.compare = append([]string(nil), compare...)
	s.mu.Unlock()
}

// statusFor maps a pipeline error to the response status. The page is
// rendered either way.
func statusFor(err error) int {
	var verr session.ValidationError
	switch {
	case err == nil, errors.Is(err, session.ErrStale):
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// render draws the page from the session snapshot. formErr is shown when
// the form itself could not be used.
func (s *Server) render(c *gin.Context, status int, formErr error) {
	s.mu.Lock()
	set, compare := s.settings, s.compare
	s.mu.Unlock()

	p := newPage(s.sess.Snapshot(), set, compare)
	p.APIBase = s.apiBase
	if formErr != nil {
		p.Err = formErr.Error()
	}
	c.HTML(status, "index.html", p)
}

// requestLogger logs each request once it has been served.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
