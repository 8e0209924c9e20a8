package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/services"
	"github.com/vedlearn/session-service/internal/utils"
)

type RecommendationHandler struct {
	BaseHandler
	recommendationService *services.RecommendationService
}

type RecommendationResponse struct {
	SubjectID uint               `json:"subject_id"`
	Tier      models.CourseLevel `json:"tier"`
	Courses   []models.Course    `json:"courses"`
}

func NewRecommendationHandler(recommendationService *services.RecommendationService, logger utils.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		BaseHandler:           NewBaseHandler(logger),
		recommendationService: recommendationService,
	}
}

// GetRecommendations resolves follow-up courses for a subject
// @Summary Course recommendations
// @Description Returns courses for a subject by tier or by score percentage
// @Tags recommendations
// @Produce json
// @Param subject_id query uint true "Subject ID"
// @Param tier query string false "Performance tier (beginner, intermediate, advanced)"
// @Param percentage query int false "Score percentage, mapped onto a tier"
// @Success 200 {object} RecommendationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /recommendations [get]
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	subjectID, ok := ParseUintQuery(c, "subject_id")
	if !ok {
		return
	}

	tierParam := strings.ToLower(strings.TrimSpace(c.Query("tier")))
	percentageParam := strings.TrimSpace(c.Query("percentage"))

	var (
		courses []models.Course
		tier    models.CourseLevel
		err     error
	)

	switch {
	case tierParam != "":
		tier = models.CourseLevel(tierParam)
		if !tier.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid tier",
				Details: "tier must be beginner, intermediate, or advanced",
			})
			return
		}
		courses, err = h.recommendationService.Recommend(c.Request.Context(), subjectID, tier)
	case percentageParam != "":
		percentage, convErr := strconv.Atoi(percentageParam)
		if convErr != nil || percentage < 0 || percentage > 100 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid percentage",
				Details: "percentage must be an integer between 0 and 100",
			})
			return
		}
		courses, tier, err = h.recommendationService.RecommendForScore(c.Request.Context(), subjectID, percentage)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing query parameter",
			Details: "either tier or percentage is required",
		})
		return
	}

	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecommendationResponse{
		SubjectID: subjectID,
		Tier:      tier,
		Courses:   courses,
	})
}
