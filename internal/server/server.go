package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	healthPingTimeout = 2 * time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// HealthChecker reports whether the review store answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server owns the gin engine shared by the review routes, /health and /metrics.
type Server struct {
	Engine *gin.Engine
	Addr   string
	store  HealthChecker
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// New builds the engine and mounts the operational routes. Feature handlers
// register their own routes on Engine.
func New(addr string, store HealthChecker, mode string) *Server {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Engine: gin.Default(),
		Addr:   addr,
		store:  store,
	}

	s.Engine.GET("/health", s.handleHealth)
	s.Engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// handleHealth always answers 200. A store that does not answer marks the
// service degraded, since fresh fetches still work without the cache.
func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{Status: "healthy", Database: "connected"}

	if s.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := s.store.Ping(ctx); err != nil {
			slog.Warn("[HTTP] Review store unreachable, reporting degraded health", "error", err)
			resp = healthResponse{Status: "degraded", Database: "unreachable"}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()

		slog.Info("[HTTP] Draining connections", "timeout", shutdownTimeout)
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(drainCtx); err != nil {
			slog.Error("[HTTP] Drain did not finish cleanly", "error", err)
		}
	}()

	slog.Info("[HTTP] Listening", "address", s.Addr)
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}
