package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/service"
)

type ScreeningHandler struct {
	screeningService service.ScreeningService
	maxBodyBytes     int64
	logger           *zap.Logger
}

// NewScreeningHandler creates the handler. The body limit allows for the
// base64 expansion of a file of maxFileBytes.
func NewScreeningHandler(screeningService service.ScreeningService, maxFileBytes int64, logger *zap.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		screeningService: screeningService,
		maxBodyBytes:     maxFileBytes/3*4 + multipartOverhead,
		logger:           logger,
	}
}

// Analyze godoc
// @Summary      AI screening assessment
// @Description  Streams a plain text PAD risk assessment of a medical history and/or an attached file. Not a diagnosis.
// @Tags         screening
// @Accept       json
// @Produce      plain
// @Param        request body dto.AnalyzeRequest true "Patient data"
// @Success      200 {string} string "Streamed assessment"
// @Failure      400 {object} response.ErrorResponse
// @Failure      413 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Router       /screening/analyze [post]
func (h *ScreeningHandler) Analyze(c *gin.Context) {
	limitBody(c, h.maxBodyBytes)

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			response.SendError(c, http.StatusRequestEntityTooLarge, response.ErrCodePayloadTooLarge, "Request body too large")
			return
		}
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	events, err := h.screeningService.Analyze(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Errors before the first chunk still get a JSON error status.
	first, ok := <-events
	if ok && first.Err != nil {
		handleServiceError(c, response.NewInternalError("Failed to generate assessment", first.Err.Error()))
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)

	if !ok {
		return
	}
	if first.Content != "" {
		_, _ = io.WriteString(c.Writer, first.Content)
		c.Writer.Flush()
	}
	if first.Done {
		return
	}

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		if ev.Err != nil {
			h.logger.Warn("Screening stream interrupted",
				zap.Error(ev.Err),
				zap.String("request_id", c.GetString("request_id")),
			)
			return false
		}
		if ev.Content != "" {
			_, _ = io.WriteString(w, ev.Content)
		}
		return !ev.Done
	})
}
