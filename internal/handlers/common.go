package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vedlearn/session-service/internal/errors"
	"github.com/vedlearn/session-service/internal/engine"
	"github.com/vedlearn/session-service/internal/services"
	"github.com/vedlearn/session-service/internal/supplier"
	"github.com/vedlearn/session-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
	}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil {
		h.LogError(c, err, message, "status_code", statusCode)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// RespondWithServiceError maps service and engine errors onto HTTP statuses.
func (h *BaseHandler) RespondWithServiceError(c *gin.Context, err error) {
	var validationErrs apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: services.FormatError(validationErrs),
			Code:    "VALIDATION_FAILED",
		})
		return
	}
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: validationErr.Message,
			Details: validationErr,
			Code:    "VALIDATION_FAILED",
		})
		return
	}

	var genErr *supplier.GenerationError
	if errors.As(err, &genErr) {
		h.LogError(c, err, "question set generation failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Failed to generate question set",
			Code:    "GENERATION_FAILED",
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error(), Code: "NOT_FOUND"})
	case errors.Is(err, engine.ErrAlreadyStarted),
		errors.Is(err, services.ErrSessionExists):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error(), Code: "CONFLICT"})
	case errors.Is(err, engine.ErrSessionNotActive),
		errors.Is(err, engine.ErrNotEvaluated),
		errors.Is(err, services.ErrSessionNotEvaluated),
		errors.Is(err, services.ErrInsightNotReady):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error(), Code: "INVALID_STATE"})
	case errors.Is(err, engine.ErrUnknownQuestion),
		errors.Is(err, engine.ErrInvalidOption),
		services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: "BAD_REQUEST"})
	default:
		h.LogError(c, err, "unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
