package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/contact"
	"github.com/Muhammadkaif97/cpn-calculator/internal/errors"
	"github.com/Muhammadkaif97/cpn-calculator/internal/middleware"
	"github.com/Muhammadkaif97/cpn-calculator/internal/monitoring"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ranking"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ratelimit"
	"github.com/Muhammadkaif97/cpn-calculator/internal/scoring"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handler serves the API routes.
type Handler struct {
	catalog      *catalog.Catalog
	contact      *contact.Service
	deliveryKind string
	redis        *ratelimit.RedisClient
	metrics      *monitoring.Metrics
	compression  *middleware.CompressionMiddleware
	logger       *monitoring.Logger
	version      string
}

// bindError turns a binding failure into a 400.
func bindError(err error) *errors.AppError {
	var ve validator.ValidationErrors
	if stderrors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		order := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = "Invalid value for " + fe.Field() + "."
			order = append(order, fe.Field())
		}
		return errors.NewValidationErrorWithMap(fields, order)
	}
	return errors.NewValidationError("body", "Invalid request body.")
}

// Health godoc
// @Summary Health check
// @Description Reports service status and the state of optional backends
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	services := map[string]string{
		"contact":    h.deliveryKind,
		"rate_limit": "memory",
	}
	if h.contact == nil {
		services["contact"] = "disabled"
	}
	if h.redis.IsEnabled() {
		services["rate_limit"] = "redis"
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			services["rate_limit"] = "redis_unreachable"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   h.version,
		Services:  services,
	})
}

// Metrics godoc
// @Summary Service metrics
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics [get]
func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":     h.metrics.GetStats(),
		"rate_limit":  h.metrics.GetRateLimitStats(),
		"compression": h.compression.GetStats(),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// Departments godoc
// @Summary List departments for a field
// @Description Returns the deduplicated working set for the given field. Unknown fields fall back to general.
// @Tags departments
// @Produce json
// @Param field query string false "pre-engineering, pre-medical or general"
// @Success 200 {object} DepartmentsResponse
// @Router /api/departments [get]
func (h *Handler) Departments(c *gin.Context) {
	field := catalog.ParseField(c.Query("field"))
	depts := h.catalog.Subset(field)

	c.JSON(http.StatusOK, DepartmentsResponse{
		Field:       field,
		Count:       len(depts),
		Departments: depts,
	})
}

// Calculate godoc
// @Summary Calculate CPN
// @Description CPN = 0.6 x test + 0.3 x intermediate + 0.1 x matric. Matric and intermediate may be given as percentages or as obtained/total marks.
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body CalculateRequest true "Exam results"
// @Success 200 {object} scoring.Result
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/calculate [post]
func (h *Handler) Calculate(c *gin.Context) {
	start := time.Now()

	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordCalculation(false)
		_ = c.Error(bindError(err))
		return
	}

	result, err := req.toInput().Evaluate()
	if err != nil {
		h.metrics.RecordCalculation(false)
		_ = c.Error(err)
		return
	}

	h.metrics.RecordCalculation(true)
	h.logger.CalculationLogger(result.Aggregate, req.Matric.usesMarks() || req.Inter.usesMarks(), time.Since(start))
	c.JSON(http.StatusOK, result)
}

// Suggestions godoc
// @Summary Rank departments
// @Description Classifies every department of the field's working set and orders them by likelihood. The condensed view keeps the first ten.
// @Tags suggestions
// @Accept json
// @Produce json
// @Param request body SuggestionsRequest true "Displayed CPN and field"
// @Success 200 {array} SuggestionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 412 {object} errors.ErrorResponse
// @Router /api/suggestions [post]
func (h *Handler) Suggestions(c *gin.Context) {
	start := time.Now()

	var req SuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	aggregate, err := scoring.ParseAggregate(string(req.Aggregate))
	if err != nil {
		var missing *scoring.MissingScoreError
		h.metrics.RecordSuggestion(stderrors.As(err, &missing))
		_ = c.Error(err)
		return
	}

	field := catalog.ParseField(req.Field)
	condensed := req.View != "full"
	entries := ranking.Suggest(h.catalog, field, aggregate, condensed)

	h.metrics.RecordSuggestion(false)
	h.logger.SuggestionLogger(string(field), aggregate, len(entries), condensed, time.Since(start))
	c.JSON(http.StatusOK, toSuggestions(entries))
}

// Contact godoc
// @Summary Submit the contact form
// @Description Validates the form and relays it. One submission per client may be in flight at a time.
// @Tags contact
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body contact.Form true "Contact form"
// @Success 200 {object} ContactResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /api/contact [post]
func (h *Handler) Contact(c *gin.Context) {
	if h.contact == nil {
		appErr := errors.NewConfigurationError("contact delivery is not configured", nil)
		appErr.HTTPStatus = http.StatusServiceUnavailable
		_ = c.Error(appErr)
		return
	}

	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	start := time.Now()
	message, err := h.contact.Submit(c.Request.Context(), c.ClientIP(), form)
	h.metrics.RecordContact(err == nil, stderrors.Is(err, contact.ErrInFlight))
	h.logger.ContactLogger(h.deliveryKind, err == nil, time.Since(start))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ContactResponse{Message: message})
}
