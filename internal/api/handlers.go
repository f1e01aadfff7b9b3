package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
	"github.com/ashokbhamla/triposia.com-sub002/internal/pagetype"
	"github.com/ashokbhamla/triposia.com-sub002/internal/sitemap"
	"github.com/ashokbhamla/triposia.com-sub002/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	store     storage.Store
	generator *sitemap.Generator
	logger    zerolog.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int         `json:"total_count,omitempty"`
}

func NewHandler(store storage.Store, generator *sitemap.Generator, logger zerolog.Logger) *Handler {
	return &Handler{store: store, generator: generator, logger: logger}
}

func (h *Handler) ClassifyPath(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Path query is required"})
		return
	}

	c.JSON(http.StatusOK, pagetype.Describe(path))
}

func (h *Handler) ListAirports(c *gin.Context) {
	docs, total, ok := h.listCollection(c, models.CollectionAirports)
	if !ok {
		return
	}

	airports := make([]*models.Airport, 0, len(docs))
	for _, doc := range docs {
		airports = append(airports, models.AirportFromDocument(doc))
	}
	h.respondPage(c, airports, total)
}

func (h *Handler) GetAirport(c *gin.Context) {
	doc, err := h.findByCode(c.Request.Context(), models.CollectionAirports, models.AirportCodeFields, c.Param("code"))
	if err != nil {
		h.logger.Error().Err(err).Str("code", c.Param("code")).Msg("airport lookup failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch airport"})
		return
	}

	if doc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Airport not found"})
		return
	}

	c.JSON(http.StatusOK, models.AirportFromDocument(doc))
}

func (h *Handler) ListAirlines(c *gin.Context) {
	docs, total, ok := h.listCollection(c, models.CollectionAirlines)
	if !ok {
		return
	}

	airlines := make([]*models.Airline, 0, len(docs))
	for _, doc := range docs {
		airlines = append(airlines, models.AirlineFromDocument(doc))
	}
	h.respondPage(c, airlines, total)
}

func (h *Handler) GetAirline(c *gin.Context) {
	doc, err := h.findByCode(c.Request.Context(), models.CollectionAirlines, models.AirlineCodeFields, c.Param("code"))
	if err != nil {
		h.logger.Error().Err(err).Str("code", c.Param("code")).Msg("airline lookup failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch airline"})
		return
	}

	if doc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Airline not found"})
		return
	}

	c.JSON(http.StatusOK, models.AirlineFromDocument(doc))
}

func (h *Handler) GetFlightRoute(c *gin.Context) {
	page := pagetype.Describe("/flights/" + c.Param("route"))
	if page.Type != pagetype.FlightRoute {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Route must look like origin-destination"})
		return
	}
	origin, _, _ := strings.Cut(page.Primary, "-")

	doc, err := h.findRoute(c.Request.Context(), strings.ToUpper(origin), page.Secondary)
	if err != nil {
		h.logger.Error().Err(err).Str("route", page.Primary).Msg("route lookup failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch route"})
		return
	}

	if doc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Route not found"})
		return
	}

	c.JSON(http.StatusOK, models.RouteFromDocument(doc))
}

// findByCode tries each code field in turn with the uppercased code.
func (h *Handler) findByCode(ctx context.Context, collection string, fields []string, code string) (*models.Document, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, field := range fields {
		doc, err := h.store.FindOne(ctx, collection, storage.Filter{field: code})
		if err != nil || doc != nil {
			return doc, err
		}
	}
	return nil, nil
}

func (h *Handler) findRoute(ctx context.Context, origin, destination string) (*models.Document, error) {
	for i := range models.OriginCodeFields {
		doc, err := h.store.FindOne(ctx, models.CollectionRoutes, storage.Filter{
			models.OriginCodeFields[i]:      origin,
			models.DestinationCodeFields[i]: destination,
		})
		if err != nil || doc != nil {
			return doc, err
		}
	}
	return nil, nil
}

func (h *Handler) listCollection(c *gin.Context, collection string) ([]*models.Document, int, bool) {
	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit
	ctx := c.Request.Context()

	docs, err := h.store.Find(ctx, collection, nil, storage.FindOptions{Limit: limit, Offset: offset})
	if err != nil {
		h.logger.Error().Err(err).Str("collection", collection).Msg("list failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch " + collection})
		return nil, 0, false
	}

	total, err := h.store.Count(ctx, collection, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("collection", collection).Msg("count failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch " + collection})
		return nil, 0, false
	}

	return docs, total, true
}

func (h *Handler) respondPage(c *gin.Context, data interface{}, total int) {
	page, limit := getPaginationParams(c)
	c.JSON(http.StatusOK, PaginationResponse{
		Data:       data,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
	})
}

// Utility functions
func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}
