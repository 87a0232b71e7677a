package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/internhub/internal/ats"
	"github.com/spigell/internhub/internal/logger"
	"github.com/spigell/internhub/internal/matching"
	"github.com/spigell/internhub/internal/profile"
)

const serviceName = "internhub"

type Handler struct {
	matcher *matching.Service
	logger  *zap.Logger
}

func NewHandler(matcher *matching.Service, log *zap.Logger) *Handler {
	return &Handler{
		matcher: matcher,
		logger:  log,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    serviceName,
		"ai_enabled": h.matcher.Narrative(),
	})
}

// Score handles POST /score
func (h *Handler) Score(c *gin.Context) {
	var req matchRequest
	if !h.bind(c, &req) {
		return
	}

	candidate, opportunity, err := decodePair(req.StudentProfile, req.Internship)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := ats.Score(candidate, opportunity)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Match handles POST /match
func (h *Handler) Match(c *gin.Context) {
	var req matchRequest
	if !h.bind(c, &req) {
		return
	}

	candidate, opportunity, err := decodePair(req.StudentProfile, req.Internship)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.matcher.Match(c.Request.Context(), candidate, opportunity)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BatchMatch handles POST /batch-match
func (h *Handler) BatchMatch(c *gin.Context) {
	var req batchRequest
	if !h.bind(c, &req) {
		return
	}

	candidate, err := profile.DecodeCandidate(req.StudentProfile)
	if err != nil {
		h.fail(c, err)
		return
	}

	opportunities, err := profile.DecodeOpportunities(req.Internships)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.matcher.Batch(c.Request.Context(), candidate, opportunities, matching.BatchOptions{
		MinScore:         req.MinScore,
		Limit:            req.Limit,
		ExcludeCompanies: req.ExcludeCompanies,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.respond(c, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    codeInvalidInput,
			Details: err.Error(),
		}, err)
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, profile.ErrInvalidInput) {
		h.respond(c, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid input",
			Code:    codeInvalidInput,
			Details: err.Error(),
		}, err)
		return
	}

	h.respond(c, http.StatusInternalServerError, ErrorResponse{
		Error:   "Matching failed",
		Code:    codeMatchingError,
		Details: err.Error(),
	}, err)
}

func (h *Handler) respond(c *gin.Context, status int, body ErrorResponse, err error) {
	_ = c.Error(err)
	h.logger.Debug("request error",
		zap.String(logger.FieldRequestID, GetRequestID(c)),
		zap.String("code", body.Code),
		zap.Error(err),
	)
	c.JSON(status, body)
}

func decodePair(rawCandidate, rawOpportunity map[string]any) (*profile.Candidate, *profile.Opportunity, error) {
	candidate, err := profile.DecodeCandidate(rawCandidate)
	if err != nil {
		return nil, nil, err
	}

	opportunity, err := profile.DecodeOpportunity(rawOpportunity)
	if err != nil {
		return nil, nil, err
	}

	return candidate, opportunity, nil
}
