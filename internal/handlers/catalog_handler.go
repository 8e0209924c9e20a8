package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vedlearn/session-service/internal/services"
	"github.com/vedlearn/session-service/internal/utils"
)

type CatalogHandler struct {
	BaseHandler
	importService *services.CatalogImportService
}

func NewCatalogHandler(importService *services.CatalogImportService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:   NewBaseHandler(logger),
		importService: importService,
	}
}

// ImportCourses imports catalog courses from an uploaded XLSX file
// @Summary Import courses
// @Description Imports courses from an Excel file with subject, title, level, url, description columns
// @Tags catalog
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX file"
// @Success 200 {object} services.ImportSummary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /catalog/import [post]
func (h *CatalogHandler) ImportCourses(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: "a multipart field named file is required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportCoursesFromExcel(c.Request.Context(), file)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
