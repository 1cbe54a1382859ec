package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/api/response"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/service/scoring"
)

// HomeHandler serves the landing-page listings
type HomeHandler struct {
	scorer  *scoring.Service
	catalog vuln.CatalogReader
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(scorer *scoring.Service, catalog vuln.CatalogReader) *HomeHandler {
	return &HomeHandler{scorer: scorer, catalog: catalog}
}

// Rankings handles GET /api/v1/home/rankings
func (h *HomeHandler) Rankings(c *gin.Context) {
	limit := parseLimit(c, h.scorer.DefaultRankLimit())

	entries, err := h.scorer.Rankings(c.Request.Context(), c.Query("window"), limit)
	if err != nil {
		if errors.Is(err, vuln.ErrInvalidInput) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.SuccessList(c, entries, len(entries))
}

// LatestUpdates handles GET /api/v1/home/latest-updates
func (h *HomeHandler) LatestUpdates(c *gin.Context) {
	limit := parseLimit(c, 20)

	updates, err := h.catalog.LatestUpdates(c.Request.Context(), limit)
	if err != nil {
		// Listing degrades to empty instead of failing the page
		log.Warn().Err(err).Msg("Latest updates degraded to empty result")
		updates = []vuln.LatestUpdate{}
	}
	response.SuccessList(c, updates, len(updates))
}

// TodayNews handles GET /api/v1/home/today-news
func (h *HomeHandler) TodayNews(c *gin.Context) {
	limit := parseLimit(c, 10)

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	articles, err := h.catalog.NewsBetween(c.Request.Context(), from, to, limit)
	if err != nil {
		log.Warn().Err(err).Msg("Today news degraded to empty result")
		articles = []vuln.NewsArticle{}
	}
	response.SuccessList(c, articles, len(articles))
}
