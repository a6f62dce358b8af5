package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"direct-chat/config"
	"direct-chat/internal/handler"
	"direct-chat/internal/middleware"
	"direct-chat/internal/services"
	"direct-chat/internal/transport/httpdto"
	"direct-chat/internal/websocket"
	"direct-chat/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	User      *handler.UserHandler
	Message   *handler.MessageHandler
	WebSocket *websocket.Handler
}

// HealthCheck is one dependency reported by /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, checks ...HealthCheck) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(cors.New(corsConfig(s.config.CORSOrigins)))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		for _, hc := range checks {
			if err := hc.Check(c.Request.Context()); err != nil {
				if s.logger != nil {
					s.logger.With(c.Request.Context()).Errorf("health check %s: %v", hc.Name, err)
				}
				c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(hc.Name+" unavailable", "UNHEALTHY"))
				return
			}
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	if handlers.WebSocket != nil {
		s.engine.GET("/ws", handlers.WebSocket.Connect)
	}

	messages := s.engine.Group("/api/messages")
	messages.Use(middleware.AuthMiddleware(authService))
	messages.Use(middleware.BodyLimit(int64(s.config.MaxBodyBytes)))
	{
		messages.GET("/users", handlers.User.Sidebar)
		messages.GET("/:id", handlers.Message.List)
		messages.POST("/send/:id", handlers.Message.Send)
		messages.DELETE("/:messageId", handlers.Message.Delete)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	cfg.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	cfg.AddExposeHeaders(middleware.RequestIDHeader)
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
