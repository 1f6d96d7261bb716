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

// NetworkIntelligenceHandlers groups the IP and domain lookups.
type NetworkIntelligenceHandlers struct {
	ipReputation scan.IPReputationLookup
	whois        scan.WhoisLookup
	timeout      time.Duration
	log          logger.Logger
}

func NewNetworkIntelligenceHandlers(ip scan.IPReputationLookup, whois scan.WhoisLookup, timeout time.Duration, log logger.Logger) *NetworkIntelligenceHandlers {
	return &NetworkIntelligenceHandlers{ipReputation: ip, whois: whois, timeout: timeout, log: log}
}

// IPReputationHandler godoc
// @Summary      Get the abuse reputation of an IP address
// @Description  Looks the address up in AbuseIPDB (last 90 days) and adds GeoIP data when local databases are configured.
// @Tags         Network & Domain Intelligence
// @Accept       json
// @Produce      json
// @Param        request body models.IPReputationRequest true "IP address"
// @Success      200 {object} models.IPReputationRecord
// @Failure      400 {object} models.ErrorResponse "Missing or malformed IP address"
// @Failure      500 {object} models.ErrorResponse "AbuseIPDB failure"
// @Router       /ip-reputation [post]
func (h *NetworkIntelligenceHandlers) IPReputationHandler(c *gin.Context) {
	var req models.IPReputationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if strings.TrimSpace(req.IP) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "IP address is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	rec, err := h.ipReputation.Lookup(ctx, req.IP)
	if err != nil {
		if errors.Is(err, providers.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid IP address", Details: err.Error()})
			return
		}
		h.log.Warn("ip reputation lookup failed", logger.String("ip", req.IP), logger.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch IP reputation", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// WhoisLookupHandler godoc
// @Summary      Perform WHOIS lookup for a domain
// @Description  Retrieves registration data from WhoisXML API, or straight from the registry when no API key is configured. Missing fields read "Unknown".
// @Tags         Network & Domain Intelligence
// @Accept       json
// @Produce      json
// @Param        request body models.WhoisLookupRequest true "Domain"
// @Success      200 {object} models.WhoisRecord
// @Failure      400 {object} models.ErrorResponse "Missing or malformed domain"
// @Failure      500 {object} models.ErrorResponse "WHOIS failure"
// @Router       /whois-lookup [post]
func (h *NetworkIntelligenceHandlers) WhoisLookupHandler(c *gin.Context) {
	var req models.WhoisLookupRequest
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

	rec, err := h.whois.Lookup(ctx, req.Domain)
	if err != nil {
		if errors.Is(err, providers.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid domain", Details: err.Error()})
			return
		}
		h.log.Warn("whois lookup failed", logger.String("domain", req.Domain), logger.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch WHOIS data", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}
