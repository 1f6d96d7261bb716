package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/breachcheck"
	"github.com/vit0-9/breachsignal_api/pkg/leads"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/providers"
)

// BreachChecker runs the breach-check flow for one submission.
type BreachChecker interface {
	Check(ctx context.Context, req models.BreachCheckRequest) (*models.BreachCheckResponse, error)
}

// LeadHandlers serves the lead-capture form and the admin lead list.
type LeadHandlers struct {
	checker BreachChecker
	store   leads.Store
	log     logger.Logger
}

func NewLeadHandlers(checker BreachChecker, store leads.Store, log logger.Logger) *LeadHandlers {
	return &LeadHandlers{checker: checker, store: store, log: log}
}

// CheckBreachHandler godoc
// @Summary      Check an email for breaches
// @Description  Verifies the reCAPTCHA token, looks the address up in HaveIBeenPwned, records the lead and emails the results.
// @Tags         Breach Check
// @Accept       json
// @Produce      json
// @Param        request body models.BreachCheckRequest true "Address and contact details"
// @Success      200 {object} models.BreachCheckResponse
// @Failure      400 {object} models.MessageResponse "Missing email or failed reCAPTCHA"
// @Failure      405 {object} models.MessageResponse
// @Failure      500 {object} models.MessageResponse "Lookup, lead store or email failure"
// @Router       /check-breach [post]
func (h *LeadHandlers) CheckBreachHandler(c *gin.Context) {
	var req models.BreachCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Message: "Invalid request payload"})
		return
	}

	resp, err := h.checker.Check(c.Request.Context(), req)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadHandlers) writeCheckError(c *gin.Context, err error) {
	var airtableErr *leads.AirtableError
	switch {
	case errors.Is(err, providers.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.MessageResponse{Message: "A valid email is required"})
	case errors.Is(err, providers.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, models.MessageResponse{Message: providers.ErrVerificationFailed.Error()})
	case errors.As(err, &airtableErr):
		h.log.Error("lead store rejected record", logger.Error(err), logger.Int("status", airtableErr.StatusCode))
		c.JSON(http.StatusInternalServerError, models.MessageResponse{
			Message: "Airtable error: " + airtableErr.Message,
			Details: gin.H{"statusCode": airtableErr.StatusCode, "error": airtableErr.Type},
		})
	case errors.Is(err, breachcheck.ErrPersistence):
		h.log.Error("lead store failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "Lead store error: " + strings.TrimPrefix(err.Error(), breachcheck.ErrPersistence.Error()+": ")})
	default:
		h.log.Error("breach check failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "An error occurred while checking for breaches"})
	}
}

// ListLeadsHandler godoc
// @Summary      List recorded leads
// @Description  Returns every stored breach-check submission, newest first. The optional q parameter filters by email, name or company.
// @Tags         Leads
// @Produce      json
// @Param        q query string false "Case-insensitive search on email, name and company"
// @Success      200 {object} models.LeadsResponse
// @Failure      405 {object} models.MessageResponse
// @Failure      500 {object} models.MessageResponse
// @Router       /leads [get]
func (h *LeadHandlers) ListLeadsHandler(c *gin.Context) {
	all, err := h.store.List(c.Request.Context())
	if err != nil {
		h.log.Error("list leads failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "Failed to fetch leads", Details: err.Error()})
		return
	}
	leads.SortNewestFirst(all)
	out := leads.Filter(all, c.Query("q"))
	if out == nil {
		out = []models.LeadRecord{}
	}
	c.JSON(http.StatusOK, models.LeadsResponse{Leads: out})
}
