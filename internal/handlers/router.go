package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vedlearn/session-service/internal/services"
	"github.com/vedlearn/session-service/internal/utils"
)

type HandlerManager struct {
	sessionHandler        *SessionHandler
	recommendationHandler *RecommendationHandler
	catalogHandler        *CatalogHandler
}

func NewHandlerManager(
	sessionService *services.SessionService,
	recommendationService *services.RecommendationService,
	importService *services.CatalogImportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler:        NewSessionHandler(sessionService, logger),
		recommendationHandler: NewRecommendationHandler(recommendationService, logger),
		catalogHandler:        NewCatalogHandler(importService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "session-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.GenerateSession)
			sessions.POST("/:id/begin", hm.sessionHandler.BeginSession)
			sessions.POST("/:id/answer", hm.sessionHandler.RecordAnswer)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.GET("/:id/time-remaining", hm.sessionHandler.GetTimeRemaining)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
			sessions.GET("/:id/insight", hm.sessionHandler.GetInsight)
		}

		v1.GET("/students/:student_id/results", hm.sessionHandler.GetStudentResults)

		v1.GET("/recommendations", hm.recommendationHandler.GetRecommendations)

		catalog := v1.Group("/catalog")
		{
			catalog.POST("/import", hm.catalogHandler.ImportCourses)
		}
	}
}
