// Package http provides the HTTP adapter for the cheque application layer.
// It translates requests into application service calls and service errors
// back into statuses; no business rules live here.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/faisalr/propdesk/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	JWTSecret    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	chequeService service.ChequeService,
	lifecycleService service.LifecycleService,
	bulkService service.BulkService,
	chainService service.ChainService,
	linkageService service.LinkageService,
	dashboardService service.DashboardService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config: config,
		router: gin.New(),
		handlers: NewHandlers(
			chequeService,
			lifecycleService,
			bulkService,
			chainService,
			linkageService,
			dashboardService,
			logger,
		),
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes. Routes under the same prefix must
// keep the parameter name :id at each position, or gin's tree rejects them.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api")
	api.Use(authMiddleware(s.config.JWTSecret))

	pdcs := api.Group("/pdcs")
	{
		pdcs.POST("", s.handlers.RegisterCheque)
		pdcs.GET("", s.handlers.ListCheques)
		pdcs.GET("/dashboard", s.handlers.Dashboard)
		pdcs.GET("/withdrawals", s.handlers.ListWithdrawals)
		pdcs.GET("/check-duplicate", s.handlers.CheckDuplicate)

		pdcs.POST("/bulk", s.handlers.BulkRegister)
		pdcs.POST("/bulk/import", s.handlers.BulkImport)

		pdcs.GET("/tenant/:id", s.handlers.TenantCheques)
		pdcs.GET("/tenant/:id/history", s.handlers.TenantHistory)
		pdcs.GET("/invoice/:id", s.handlers.InvoiceCheques)
		pdcs.GET("/invoice/:id/coverage", s.handlers.InvoiceCoverage)

		pdcs.GET("/:id", s.handlers.GetCheque)
		pdcs.GET("/:id/events", s.handlers.GetChequeEvents)
		pdcs.GET("/:id/chain", s.handlers.GetChequeChain)
		pdcs.POST("/:id/deposit", s.handlers.Deposit)
		pdcs.POST("/:id/clear", s.handlers.Clear)
		pdcs.POST("/:id/bounce", s.handlers.Bounce)
		pdcs.POST("/:id/replace", s.handlers.Replace)
		pdcs.POST("/:id/withdraw", s.handlers.Withdraw)
		pdcs.POST("/:id/cancel", s.handlers.Cancel)
		pdcs.POST("/:id/scan", s.handlers.AttachScan)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
