package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/providers"
	"github.com/vit0-9/breachsignal_api/pkg/scan"
)

// WebAnalysisHandlers serves the site security scan.
type WebAnalysisHandlers struct {
	site    scan.SiteSecurityScan
	timeout time.Duration
	log     logger.Logger
}

func NewWebAnalysisHandlers(site scan.SiteSecurityScan, timeout time.Duration, log logger.Logger) *WebAnalysisHandlers {
	return &WebAnalysisHandlers{site: site, timeout: timeout, log: log}
}

// SiteSecurityScanHandler godoc
// @Summary      Scan a website's security posture
// @Description  Combines SSL Labs, securityheaders.com, SPF/DKIM/DMARC/DNSSEC records, the served certificate and detected technologies.
// @Description  Returns 200 when both graders answered, 207 when one failed and 500 when both failed.
// @Tags         Web Analysis
// @Accept       json
// @Produce      json
// @Param        request body models.SiteSecurityRequest true "Domain; debug keeps upstream error messages"
// @Success      200 {object} models.SiteSecurityRecord
// @Success      207 {object} models.SiteSecurityRecord "One grader failed; see errors"
// @Failure      400 {object} models.ErrorResponse "Missing or malformed domain"
// @Failure      500 {object} models.ErrorResponse "Both graders failed"
// @Router       /site-security-scan [post]
func (h *WebAnalysisHandlers) SiteSecurityScanHandler(c *gin.Context) {
	var req models.SiteSecurityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if strings.TrimSpace(req.Domain) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Domain is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	rec, err := h.site.Scan(ctx, req.Domain)
	var failed *providers.ScanFailedError
	switch {
	case errors.As(err, &failed):
		h.log.Warn("site security scan failed", logger.String("domain", req.Domain), logger.Error(err))
		resp := models.ErrorResponse{Error: failed.Error()}
		if req.Debug {
			resp.Details = failed.Details
		}
		c.JSON(http.StatusInternalServerError, resp)
	case errors.Is(err, providers.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid domain", Details: err.Error()})
	case err != nil:
		h.log.Error("site security scan failed", logger.String("domain", req.Domain), logger.Error(err))
		resp := models.ErrorResponse{Error: "Failed to scan site security"}
		if req.Debug {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	default:
		status := http.StatusOK
		if len(providers.FailedPrimaries(rec)) > 0 {
			status = http.StatusMultiStatus
		}
		if !req.Debug {
			rec = scan.RedactErrors(rec)
		}
		c.JSON(status, rec)
	}
}
