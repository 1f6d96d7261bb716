package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/report"
)

// Report formats accepted by the format query parameter.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// ReportHandlers renders breach lists for download or clipboard.
type ReportHandlers struct {
	identity   report.Identity
	bookingURL string
	log        logger.Logger
}

func NewReportHandlers(identity report.Identity, bookingURL string, log logger.Logger) *ReportHandlers {
	return &ReportHandlers{identity: identity, bookingURL: bookingURL, log: log}
}

// BreachReportHandler godoc
// @Summary      Render a breach report
// @Description  Renders the given breaches as plain text, an HTML fragment or a paginated A4 PDF. Breach order is kept.
// @Tags         Breach Check
// @Accept       json
// @Produce      plain
// @Produce      html
// @Produce      application/pdf
// @Param        format query string false "text (default), html or pdf" Enums(text, html, pdf)
// @Param        request body models.BreachReportRequest true "Breaches to render"
// @Success      200 {string} string "Rendered report"
// @Failure      400 {object} models.ErrorResponse "Invalid payload or unknown format"
// @Failure      500 {object} models.ErrorResponse "Rendering failed"
// @Router       /breach-report [post]
func (h *ReportHandlers) BreachReportHandler(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", FormatText))

	var req models.BreachReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}

	switch format {
	case FormatText:
		c.String(http.StatusOK, report.Text(req.Breaches))
	case FormatHTML:
		fragment, err := report.HTML(req.Breaches)
		if err != nil {
			h.renderFailed(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
	case FormatPDF:
		var buf bytes.Buffer
		err := report.PDF(&buf, req.Breaches, report.LayoutOptions{
			Identity:   h.identity,
			Email:      req.Email,
			BookingURL: h.bookingURL,
		})
		if err != nil {
			h.renderFailed(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="breach-report.pdf"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "format must be one of text, html or pdf"})
	}
}

func (h *ReportHandlers) renderFailed(c *gin.Context, err error) {
	h.log.Error("render breach report failed", logger.Error(err))
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to render report", Details: err.Error()})
}
