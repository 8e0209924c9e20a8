package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
	"github.com/vedlearn/session-service/internal/services"
	"github.com/vedlearn/session-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService *services.SessionService
}

type RecordAnswerRequest struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	Option     string `json:"option" validate:"required,option_letter"`
}

func NewSessionHandler(sessionService *services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// GenerateSession creates a new assessment session
// @Summary Generate session
// @Description Generates a question set for the requested mode and creates a session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body services.GenerateRequest true "Session parameters"
// @Success 201 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) GenerateSession(c *gin.Context) {
	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	view, err := h.sessionService.Generate(c.Request.Context(), req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// BeginSession starts the countdown for a generated session
// @Summary Begin session
// @Description Transitions a generated session to in progress and starts its timer
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.TimeRemainingView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/begin [post]
func (h *SessionHandler) BeginSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	view, err := h.sessionService.Begin(c.Request.Context(), sessionID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// RecordAnswer stores or overwrites an answer on a running session
// @Summary Record answer
// @Description Records the student's option pick for one question
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body RecordAnswerRequest true "Answer"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answer [post]
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	err := h.sessionService.RecordAnswer(c.Request.Context(), sessionID, req.QuestionID, models.Option(req.Option))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Answer recorded", nil)
}

// SubmitSession finalizes a session
// @Summary Submit session
// @Description Submits the session for evaluation; duplicate submits return the original result
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.ScoreResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	result, err := h.sessionService.Submit(c.Request.Context(), sessionID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTimeRemaining reports the countdown of a session
// @Summary Time remaining
// @Description Returns the whole seconds left on a session without changing its state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.TimeRemainingView
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/time-remaining [get]
func (h *SessionHandler) GetTimeRemaining(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	view, err := h.sessionService.TimeRemaining(c.Request.Context(), sessionID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetResult returns the evaluated outcome of a session
// @Summary Session result
// @Description Returns the stored result of an evaluated session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	result, err := h.sessionService.Result(c.Request.Context(), sessionID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStudentResults lists a student's evaluated sessions
// @Summary Student result history
// @Description Returns a student's stored session results, newest first
// @Tags sessions
// @Produce json
// @Param student_id path uint true "Student ID"
// @Param subject_id query uint false "Filter by subject"
// @Param mode query string false "Filter by test mode"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /students/{student_id}/results [get]
func (h *SessionHandler) GetStudentResults(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("student_id"), 10, 64)
	if err != nil || studentID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid student_id",
			Details: "must be a positive integer",
		})
		return
	}

	var filters repositories.ResultFilters
	if raw := c.Query("subject_id"); raw != "" {
		subjectID, convErr := strconv.ParseUint(raw, 10, 64)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid subject_id"})
			return
		}
		id := uint(subjectID)
		filters.SubjectID = &id
	}
	if raw := c.Query("mode"); raw != "" {
		mode := models.TestMode(raw)
		if !mode.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid mode"})
			return
		}
		filters.Mode = &mode
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	results, total, err := h.sessionService.History(c.Request.Context(), uint(studentID), filters)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   total,
	})
}

// GetInsight returns qualitative feedback for an evaluated session
// @Summary Session insight
// @Description Returns the insight for an evaluated session, generating it on first request
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} insight.Insight
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/insight [get]
func (h *SessionHandler) GetInsight(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	out, err := h.sessionService.Insight(c.Request.Context(), sessionID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
