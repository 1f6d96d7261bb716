package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/providers"
	"github.com/vit0-9/breachsignal_api/pkg/scan"
)

// ScanRunner fans a unified scan out to its sources.
type ScanRunner interface {
	Run(ctx context.Context, req models.ScanRequest) (*models.ScanResult, error)
}

type ScanHandlers struct {
	runner   ScanRunner
	verifier providers.Verifier
	timeout  time.Duration
	log      logger.Logger
}

func NewScanHandlers(runner ScanRunner, verifier providers.Verifier, timeout time.Duration, log logger.Logger) *ScanHandlers {
	return &ScanHandlers{runner: runner, verifier: verifier, timeout: timeout, log: log}
}

// ScanHandler godoc
// @Summary      Run a unified scan
// @Description  Runs every lookup the request selects in parallel: email for breaches, domain for WHOIS and site security, ip for reputation.
// @Description  A failing source never hides the others; its entry is left out and errors names it. With email set the reCAPTCHA token is verified first.
// @Tags         Scan
// @Accept       json
// @Produce      json
// @Param        request body models.ScanRequest true "At least one of email, domain or ip"
// @Success      200 {object} models.ScanResult
// @Success      207 {object} models.ScanResult "Some sources failed; see errors"
// @Failure      400 {object} models.ErrorResponse "No target or failed reCAPTCHA"
// @Router       /scan [post]
func (h *ScanHandlers) ScanHandler(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if !req.HasTarget() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: scan.ErrEmptyRequest.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if req.Email != "" {
		if err := h.verifier.Verify(ctx, req.RecaptchaToken); err != nil {
			if errors.Is(err, providers.ErrVerificationFailed) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
				return
			}
			h.log.Error("recaptcha verification unavailable", logger.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to verify reCAPTCHA", Details: err.Error()})
			return
		}
	}

	result, err := h.runner.Run(ctx, req)
	if err != nil {
		if errors.Is(err, scan.ErrEmptyRequest) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Scan failed", Details: err.Error()})
		return
	}

	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}
