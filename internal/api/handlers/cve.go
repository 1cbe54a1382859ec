package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/api/response"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/service/scoring"
)

// CVEHandler handles per-vulnerability HTTP requests
type CVEHandler struct {
	scorer *scoring.Service
}

// NewCVEHandler creates a new CVEHandler
func NewCVEHandler(scorer *scoring.Service) *CVEHandler {
	return &CVEHandler{scorer: scorer}
}

// Basic handles GET /api/v1/cve/:id/basic
func (h *CVEHandler) Basic(c *gin.Context) {
	basic, err := h.scorer.Basic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, basic)
}

// ScoresPayload is the full score breakdown for one vulnerability
type ScoresPayload struct {
	ID         string               `json:"cve"`
	Window     string               `json:"window"`
	Overall    float64              `json:"overall_score"`
	Components vuln.ComponentScores `json:"components"`
	Labels     vuln.Labels          `json:"labels"`
}

// Scores handles GET /api/v1/cve/:id/scores
func (h *CVEHandler) Scores(c *gin.Context) {
	window, err := h.scorer.Window(c.Query("window"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.scorer.Scores(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, ScoresPayload{
		ID:         result.ID,
		Window:     window,
		Overall:    result.Overall,
		Components: result.Components,
		Labels:     result.Labels,
	})
}

// StatsPayload mirrors the catalog stats block. Counters stay zero until the
// view/comment pipeline lands; existence is still checked so unknown IDs 404.
type StatsPayload struct {
	ID       string `json:"cve"`
	Views    int    `json:"views"`
	Comments int    `json:"comments"`
}

// Stats handles GET /api/v1/cve/:id/stats
func (h *CVEHandler) Stats(c *gin.Context) {
	basic, err := h.scorer.Basic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, StatsPayload{ID: basic.ID})
}

// Timeline handles GET /api/v1/cve/:id/timeline
func (h *CVEHandler) Timeline(c *gin.Context) {
	events, err := h.scorer.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessList(c, events, len(events))
}

// Related handles GET /api/v1/cve/:id/related
func (h *CVEHandler) Related(c *gin.Context) {
	limit := parseLimit(c, 5)

	items, err := h.scorer.Related(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessList(c, items, len(items))
}

// SummaryPayload carries the generated score narrative
type SummaryPayload struct {
	ID      string `json:"cve"`
	Window  string `json:"window"`
	Summary string `json:"summary"`
}

// Summary handles POST /api/v1/cve/:id/summary
func (h *CVEHandler) Summary(c *gin.Context) {
	window, err := h.scorer.Window(c.Query("window"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	text, err := h.scorer.Summary(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, SummaryPayload{
		ID:      vuln.NormalizeID(c.Param("id")),
		Window:  window,
		Summary: text,
	})
}

// Recommendations handles POST /api/v1/cve/:id/recommendations
func (h *CVEHandler) Recommendations(c *gin.Context) {
	recs, err := h.scorer.Recommendations(c.Request.Context(), c.Param("id"), c.Query("window"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessList(c, recs, len(recs))
}

// writeError maps domain sentinels onto the error envelope
func (h *CVEHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, vuln.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, vuln.ErrNotFound):
		response.NotFound(c, "CVE not found")
	case errors.Is(err, vuln.ErrBackendUnavailable):
		response.SourceUnavailable(c, err)
	default:
		response.InternalError(c, err)
	}
}

// parseLimit reads a positive ?limit= value, falling back to def
func parseLimit(c *gin.Context, def int) int {
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
