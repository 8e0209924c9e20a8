package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vedlearn/session-service/internal/models"
)

// Validator wraps go-playground struct validation with the custom rules used
// across the service.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags and returns the raw validator error.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures into ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions.
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("option_letter", validateOptionLetter)
	validate.RegisterValidation("course_level", validateCourseLevel)
	validate.RegisterValidation("test_mode", validateTestMode)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	return models.DifficultyLevel(fl.Field().String()).Valid()
}

func validateOptionLetter(fl validator.FieldLevel) bool {
	return models.Option(fl.Field().String()).Valid()
}

func validateCourseLevel(fl validator.FieldLevel) bool {
	return models.CourseLevel(fl.Field().String()).Valid()
}

func validateTestMode(fl validator.FieldLevel) bool {
	return models.TestMode(fl.Field().String()).Valid()
}
