package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/api/response"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/service/sbom"
)

// maxUploadSize bounds the multipart archive upload
const maxUploadSize = 256 << 20 // 256 MB

// EnvironmentHandler serves the environment scan endpoint
type EnvironmentHandler struct {
	scanner *sbom.Scanner
}

// NewEnvironmentHandler creates a new EnvironmentHandler
func NewEnvironmentHandler(scanner *sbom.Scanner) *EnvironmentHandler {
	return &EnvironmentHandler{scanner: scanner}
}

// Scan handles POST /api/v1/environment/scan
func (h *EnvironmentHandler) Scan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file upload is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	report, err := h.scanner.Scan(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, sbom.ErrUnsupportedArchive):
			response.BadRequest(c, err.Error())
		case errors.Is(err, sbom.ErrScanFailed):
			response.Error(c, http.StatusInternalServerError, response.ErrCodeScanFailed, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, report)
}
