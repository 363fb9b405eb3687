package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
	"github.com/heleneolivares/portfolio-evolution/internal/services"
)

// PipelineHandler handles ingestion requests from the data pipeline.
type PipelineHandler struct {
	ingestionService services.IngestionServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(ingestionService services.IngestionServicer) *PipelineHandler {
	return &PipelineHandler{ingestionService: ingestionService}
}

// LoadWorkbook handles uploading a portfolio workbook.
// @Summary     Load portfolio workbook
// @Description Ingest an .xlsx workbook with a "weights" sheet and a prices sheet (pipeline endpoint)
// @Tags        pipeline
// @Accept      multipart/form-data
// @Produce     json
// @Param       X-API-Key header   string true "Pipeline API key"
// @Param       file      formData file   true "Workbook (.xlsx)"
// @Success     200       {object} services.IngestionReport
// @Failure     400       {object} ErrorResponse "Invalid workbook"
// @Failure     401       {object} ErrorResponse "Invalid API key"
// @Failure     413       {object} ErrorResponse "Workbook too large"
// @Failure     503       {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/load [post]
func (h *PipelineHandler) LoadWorkbook(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(c, apperrors.ErrPayloadTooLarge)
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "A workbook must be uploaded in the 'file' field"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	origin := services.Origin{Source: "upload:" + header.Filename, ClientIP: c.ClientIP()}
	report, err := h.ingestionService.LoadWorkbook(file, origin)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
