package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/internal/sitemap"
	"github.com/ashokbhamla/triposia.com-sub002/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

func NewServer(port int, store storage.Store, generator *sitemap.Generator, logger zerolog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), requestMetrics())

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Create handler
	handler := NewHandler(store, generator, logger)

	// Sitemaps
	router.GET("/sitemap.xml", handler.SitemapIndex)
	router.HEAD("/sitemap.xml", handler.SitemapIndex)
	router.GET("/robots.txt", handler.Robots)
	router.NoRoute(handler.SitemapFile)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup routes
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		api.GET("/classify", handler.ClassifyPath)
		api.GET("/sitemaps", handler.SitemapManifest)

		airports := api.Group("/airports")
		{
			airports.GET("", handler.ListAirports)
			airports.GET("/:code", handler.GetAirport)
		}

		airlines := api.Group("/airlines")
		{
			airlines.GET("", handler.ListAirlines)
			airlines.GET("/:code", handler.GetAirline)
		}

		api.GET("/flights/:route", handler.GetFlightRoute)
	}

	return &Server{
		router: router,
		port:   port,
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
