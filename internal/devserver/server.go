/*
Package devserver is an in-memory backend for local development and
integration tests: the full REST surface the storefront client talks to,
seeded with a demo catalog and account. Nothing here survives a restart.
*/
package devserver

import (
	"net/http"
	"sync"

	"storefront/config"
	"storefront/model"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// account is one registered user and everything hanging off it.
type account struct {
	password  string
	profile   model.Profile
	addresses []model.Address
	cart      []model.CartEntry
	orders    []model.Order
}

// Server is the dev backend.
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	log    *zap.Logger

	mu         sync.Mutex
	accounts   map[string]*account
	products   []model.Product
	categories []model.Category
	nextID     int
}

// New builds the server with seeded fixtures and all routes registered.
func New(cfg *config.Config) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.TestMode)
	}

	engine := gin.New()
	// Middleware order matters: the request id must exist before anything
	// logs, and recovery must wrap the handlers.
	engine.Use(requestIDMiddleware())
	engine.Use(recoveryMiddleware())
	engine.Use(loggingMiddleware())
	engine.Use(corsMiddleware(&cfg.CORS))
	engine.Use(rateLimitMiddleware(&cfg.Server.RateLimit))

	s := &Server{
		cfg:        cfg.Server,
		engine:     engine,
		log:        logger.With(zap.String("component", "devserver")),
		accounts:   seedAccounts(),
		products:   seedProducts(),
		categories: seedCategories(),
	}
	s.nextID = len(s.accounts)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":   "storefront-devserver",
			"health": "/api/health",
		})
	})

	api := s.engine.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			respondOK(c, gin.H{"status": "ok"}, "")
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/logout", s.handleLogout)
		}

		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("/products", s.handleListProducts)
			catalogGroup.GET("/products/:id", s.handleGetProduct)
			catalogGroup.GET("/categories/top-level", s.handleTopLevelCategories)
		}

		protected := api.Group("")
		protected.Use(s.authRequired())
		{
			protected.GET("/cart", s.handleGetCart)
			protected.DELETE("/cart", s.handleClearCart)
			protected.POST("/cart/items", s.handleAddCartItem)
			protected.PUT("/cart/items/:productId", s.handleUpdateCartItem)
			protected.DELETE("/cart/items/:productId", s.handleRemoveCartItem)

			protected.POST("/orders", s.handleCreateOrder)
			protected.GET("/orders", s.handleListOrders)
			protected.GET("/orders/:id", s.handleGetOrder)
			protected.PUT("/orders/:id/cancel", s.handleCancelOrder)

			protected.GET("/users/me", s.handleGetProfile)
			protected.PUT("/users/me", s.handleUpdateProfile)
			protected.GET("/users/addresses", s.handleListAddresses)
			protected.POST("/users/addresses", s.handleAddAddress)
		}
	}
}

// Engine exposes the gin engine, for tests and for embedding behind an
// http.Server.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// HTTPServer wraps the engine in an http.Server with the configured
// timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}

// findAccount looks up an account by email.
func (s *Server) findAccount(email string) (*account, bool) {
	acct, ok := s.accounts[email]
	return acct, ok
}

// cartSnapshot builds the wire representation of an account's cart.
func cartSnapshot(acct *account) model.CartSnapshot {
	snap := model.CartSnapshot{Items: append([]model.CartEntry{}, acct.cart...)}
	for _, e := range acct.cart {
		snap.TotalItems += e.Quantity
		snap.TotalPrice += e.Price * float64(e.Quantity)
	}
	return snap
}
