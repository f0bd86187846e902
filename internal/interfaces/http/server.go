// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/estim-games/estim-api/internal/config"
	"github.com/estim-games/estim-api/internal/domain/cart"
	"github.com/estim-games/estim-api/internal/domain/catalog"
	"github.com/estim-games/estim-api/internal/domain/order"
	"github.com/estim-games/estim-api/internal/domain/user"
	"github.com/estim-games/estim-api/internal/infrastructure/database/postgres"
	redisdb "github.com/estim-games/estim-api/internal/infrastructure/database/redis"
	"github.com/estim-games/estim-api/internal/interfaces/http/handlers"
	"github.com/estim-games/estim-api/internal/interfaces/http/middleware"
	"github.com/estim-games/estim-api/internal/interfaces/http/routes"
	"github.com/estim-games/estim-api/internal/pkg/auth"
	"github.com/estim-games/estim-api/internal/pkg/pdf"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const maxRequestBytes = 10 << 20

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	gin        *gin.Engine
	httpServer *http.Server
	db         *postgres.Connection
	redis      *redisdb.Client
	catalog    *catalog.Service
	logger     logrus.FieldLogger
	startedAt  time.Time
}

// NewServer wires services, middleware and routes. redisClient may be nil
// when no component is configured to use Redis.
func NewServer(cfg *config.Config, db *postgres.Connection, redisClient *redisdb.Client, logger logrus.FieldLogger) *Server {
	s := &Server{
		config:    cfg,
		db:        db,
		redis:     redisClient,
		logger:    logger,
		startedAt: time.Now(),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.gin = gin.New()
	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("⚠️ Invalid trusted proxies, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infof("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	s.logger.Infof("🎮 Catalog: http://localhost:%s/games/", s.config.Server.Port)
	s.logger.Infof("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("🛑 Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("✅ HTTP server stopped gracefully")
	return nil
}

func (s *Server) redisClient() *redis.Client {
	if s.redis == nil {
		return nil
	}
	return s.redis.GetClient()
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())
	if s.config.Security.RateLimitPerMinute > 0 && s.redis == nil {
		s.logger.Warn("⚠️ RATE_LIMIT_PER_MINUTE is set but Redis is unavailable, rate limiting is off")
	}
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redisClient(), s.logger))
	s.gin.Use(middleware.RequestSizeLimit(maxRequestBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// cartStore picks the cart backend from configuration
func (s *Server) cartStore() cart.Store {
	if s.config.Cart.Store == "redis" {
		if client := s.redisClient(); client != nil {
			return cart.NewRedisStore(client, s.config.Cart.TTL)
		}
		s.logger.Warn("⚠️ CART_STORE=redis but Redis is unavailable, carts are kept in memory")
	}
	return cart.NewMemoryStore()
}

// setupRoutes builds the services and registers all routes
func (s *Server) setupRoutes() {
	db := s.db.GetDB()

	passwords := auth.NewPasswordManager(s.config.Security.BcryptCost)
	tokens := auth.NewJWTManager(s.config)

	s.catalog = catalog.NewService(catalog.NewGormRepository(db), s.logger.WithField("component", "catalog"))
	cartService := cart.NewService(s.cartStore(), s.catalog, s.logger.WithField("component", "cart"))
	userService := user.NewService(db, passwords, tokens, s.config.JWT.RefreshTokenRotation, s.logger.WithField("component", "user"))
	orderService := order.NewService(db, cartService, s.logger.WithField("component", "order"))

	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	routes.SetupRoutes(s.gin, routes.Dependencies{
		Games:  handlers.NewGameHandler(s.catalog, s.logger),
		Cart:   handlers.NewCartHandler(cartService, pdf.NewService(s.config), s.logger),
		Auth:   handlers.NewAuthHandler(userService, cartService, s.logger),
		Orders: handlers.NewOrderHandler(orderService, s.logger),
		Admin:  handlers.NewAdminHandler(postgres.NewMigration(db, passwords, s.logger), s.logger),
		JWT:    tokens,
		Session: middleware.SessionConfig{
			CookieName: s.config.Cart.SessionCookie,
			MaxAge:     s.config.Cart.TTL,
			Secure:     s.config.Cart.CookieSecure,
		},
	})

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"games":  "/games/",
					"cart":   "/shopping_cart",
					"auth":   "/auth",
					"orders": "/orders/history",
					"admin":  "/admin",
				},
			})
		})
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.Health(); err != nil {
		s.logger.WithError(err).Error("Database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	if s.redis != nil {
		if err := s.redis.Health(); err != nil {
			s.logger.WithError(err).Error("Redis health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "redis ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck reports ready once the catalog can be read
func (s *Server) readinessCheck(c *gin.Context) {
	count, err := s.catalog.CountPublished(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("Readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "catalog unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"games":     count,
	})
}
