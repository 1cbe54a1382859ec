package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/api/response"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// SearchHandler serves catalog search
type SearchHandler struct {
	catalog vuln.CatalogReader
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(catalog vuln.CatalogReader) *SearchHandler {
	return &SearchHandler{catalog: catalog}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.BadRequest(c, "q parameter is required")
		return
	}

	mode := c.Query("type")
	switch mode {
	case "", "cve", "keyword":
	default:
		response.BadRequest(c, "type must be one of: cve, keyword")
		return
	}

	hits, err := h.catalog.Search(c.Request.Context(), vuln.SearchQuery{
		Query: query,
		Mode:  mode,
		Limit: parseLimit(c, 20),
	})
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Search degraded to empty result")
		hits = []vuln.SearchHit{}
	}
	response.SuccessList(c, hits, len(hits))
}
