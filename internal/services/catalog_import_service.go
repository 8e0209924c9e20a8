package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
	"github.com/vedlearn/session-service/internal/utils"
)

// RowError describes why one spreadsheet row was rejected.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportSummary reports the outcome of a catalog import. Rejected rows never
// abort the import; valid rows are still written.
type ImportSummary struct {
	TotalRows     int        `json:"total_rows"`
	ImportedCount int        `json:"imported_count"`
	ErrorCount    int        `json:"error_count"`
	Errors        []RowError `json:"errors,omitempty"`
}

// CatalogImportService loads courses into the catalog from XLSX spreadsheets
// with columns: subject, title, level, url, description.
type CatalogImportService struct {
	courses     repositories.CourseRepository
	subjects    repositories.SubjectRepository
	invalidator func(ctx context.Context, subjectID uint)
	logger      utils.Logger
}

func NewCatalogImportService(courses repositories.CourseRepository, subjects repositories.SubjectRepository, invalidator func(ctx context.Context, subjectID uint), logger utils.Logger) *CatalogImportService {
	return &CatalogImportService{
		courses:     courses,
		subjects:    subjects,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *CatalogImportService) ImportCoursesFromExcel(ctx context.Context, reader io.Reader) (*ImportSummary, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, NewValidationError("file", "Excel must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"subject", "title", "level"} {
		if _, ok := headerMap[required]; !ok {
			return nil, NewValidationError("file", fmt.Sprintf("missing required column %q", required), nil)
		}
	}

	summary := &ImportSummary{TotalRows: len(rows) - 1}
	var courses []*models.Course
	touched := make(map[uint]bool)

	for rowIndex, row := range rows[1:] {
		rowNum := rowIndex + 2

		course, rowErr := s.parseRow(ctx, row, headerMap, rowNum)
		if rowErr != nil {
			summary.Errors = append(summary.Errors, *rowErr)
			summary.ErrorCount++
			continue
		}
		courses = append(courses, course)
		touched[course.SubjectID] = true
		summary.ImportedCount++
	}

	if len(courses) > 0 {
		if err := s.courses.CreateBatch(ctx, courses); err != nil {
			return nil, fmt.Errorf("failed to save courses: %w", err)
		}
		if s.invalidator != nil {
			for subjectID := range touched {
				s.invalidator(ctx, subjectID)
			}
		}
	}

	s.logger.InfoContext(ctx, "catalog import completed",
		"total_rows", summary.TotalRows,
		"imported_count", summary.ImportedCount,
		"error_count", summary.ErrorCount)

	return summary, nil
}

func (s *CatalogImportService) parseRow(ctx context.Context, row []string, headerMap map[string]int, rowNum int) (*models.Course, *RowError) {
	cell := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	subjectName := cell("subject")
	if subjectName == "" {
		return nil, &RowError{Row: rowNum, Field: "subject", Message: "subject is required"}
	}

	title := cell("title")
	if title == "" {
		return nil, &RowError{Row: rowNum, Field: "title", Message: "title is required"}
	}

	level := models.CourseLevel(strings.ToLower(cell("level")))
	if !level.Valid() {
		return nil, &RowError{Row: rowNum, Field: "level", Message: "level must be beginner, intermediate, or advanced"}
	}

	subject, err := s.findOrCreateSubject(ctx, subjectName)
	if err != nil {
		return nil, &RowError{Row: rowNum, Field: "subject", Message: err.Error()}
	}

	course := &models.Course{
		SubjectID: subject.ID,
		Title:     title,
		Level:     level,
	}
	if url := cell("url"); url != "" {
		course.URL = &url
	}
	if description := cell("description"); description != "" {
		course.Description = &description
	}
	return course, nil
}

func (s *CatalogImportService) findOrCreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	subject, err := s.subjects.GetByName(ctx, name)
	if err == nil {
		return subject, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.Subject{Name: name, IsActive: true}
	if err := s.subjects.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create subject %q: %w", name, err)
	}
	s.logger.InfoContext(ctx, "subject created during import", "subject", name)
	return created, nil
}
