// Package agoraflux wires the search and country-profile pipelines
// behind the HTTP API.
package agoraflux

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agoraflux/agoraflux/metrics"
	"github.com/agoraflux/agoraflux/profiles"
	"github.com/agoraflux/agoraflux/search"
	"github.com/agoraflux/agoraflux/sources"
)

// APIServer exposes the news search and country-profile endpoints.
type APIServer struct {
	registry *sources.Registry
	fetcher  *search.Fetcher
	cache    *profiles.Cache
	log      *log.Logger
}

// NewAPIServer creates an API server over the given components.
func NewAPIServer(registry *sources.Registry, fetcher *search.Fetcher, cache *profiles.Cache, logger *log.Logger) *APIServer {
	if logger == nil {
		logger = log.Default()
	}
	return &APIServer{
		registry: registry,
		fetcher:  fetcher,
		cache:    cache,
		log:      logger,
	}
}

// ErrorResponse is the fixed JSON error envelope every handler uses.
type ErrorResponse struct {
	Error    string           `json:"error"`
	Details  string           `json:"details,omitempty"`
	Warnings []search.Warning `json:"warnings,omitempty"`
}

// SearchResponse is the payload for GET /search.
type SearchResponse struct {
	Q        string               `json:"q"`
	Count    int                  `json:"count"`
	Items    []search.CompactItem `json:"items"`
	Warnings []search.Warning     `json:"warnings"`
}

// RefreshResponse is the payload for the refresh endpoint.
type RefreshResponse struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetupRouter configures the Gin router with all API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(corsMiddleware())

	router.GET("/search", s.HandleSearch)
	router.GET("/sources", s.HandleSources)
	router.GET("/country-profiles", s.HandleCountryProfiles)
	router.GET("/refresh-country-profiles", s.HandleRefreshCountryProfiles)
	router.POST("/refresh-country-profiles", s.HandleRefreshCountryProfiles)
	router.GET("/healthz", s.HandleHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})

	return router
}

// HandleSearch handles GET /search: fan the query out over the selected
// sources, merge the matches, and report per-source failures as
// warnings.
func (s *APIServer) HandleSearch(c *gin.Context) {
	q := c.Query("q")
	mode := search.ParseMode(c.Query("mode"))

	var keys []string
	if raw := c.Query("sources"); raw != "" {
		keys = strings.Split(raw, ",")
	}

	// Omitted or "all" means every source; only explicitly unknown keys
	// leave the selection empty.
	selected := s.registry.Select(keys)
	if len(selected) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no sources selected"})
		return
	}

	res, err := s.fetcher.Search(c.Request.Context(), selected, q, mode)
	if err != nil {
		if errors.Is(err, search.ErrAllSourcesFailed) {
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:    "unable to fetch the selected feeds",
				Warnings: res.Warnings,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "search failed", Details: err.Error()})
		return
	}

	items := res.Items
	if items == nil {
		items = []search.CompactItem{}
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []search.Warning{}
	}

	c.JSON(http.StatusOK, SearchResponse{Q: q, Count: res.Count, Items: items, Warnings: warnings})
}

// HandleSources handles GET /sources.
func (s *APIServer) HandleSources(c *gin.Context) {
	c.JSON(http.StatusOK, s.registry.All())
}

// HandleCountryProfiles handles GET /country-profiles. refresh=1 or
// refresh=true bypasses both cache tiers.
func (s *APIServer) HandleCountryProfiles(c *gin.Context) {
	refresh := c.Query("refresh")
	force := refresh == "1" || refresh == "true"

	snap, err := s.cache.Get(c.Request.Context(), force)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "unable to fetch country profiles",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// HandleRefreshCountryProfiles forces an unconditional snapshot rebuild.
func (s *APIServer) HandleRefreshCountryProfiles(c *gin.Context) {
	snap, err := s.cache.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "unable to refresh country profiles",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, RefreshResponse{Status: "refreshed", UpdatedAt: snap.UpdatedAt})
}

// HandleHealth handles GET /healthz.
func (s *APIServer) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger tags each request with an id and logs its outcome.
func (s *APIServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		s.log.Info("request",
			"id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// corsMiddleware allows browser front-ends on other origins to call the
// API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
