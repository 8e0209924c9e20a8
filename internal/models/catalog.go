package models

import (
	"time"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// Ordinal returns the position of the level on the beginner < intermediate < advanced
// scale. Unknown levels sort below beginner so they never win a proximity comparison.
func (l CourseLevel) Ordinal() int {
	switch l {
	case LevelBeginner:
		return 0
	case LevelIntermediate:
		return 1
	case LevelAdvanced:
		return 2
	default:
		return -1
	}
}

func (l CourseLevel) Valid() bool {
	return l.Ordinal() >= 0
}

type Subject struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:100;uniqueIndex" validate:"required,min=1,max=100"`
	Description *string `json:"description" gorm:"type:text"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Courses   []Course   `json:"courses,omitempty" gorm:"foreignKey:SubjectID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:SubjectID"`
}

type Course struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	SubjectID   uint        `json:"subject_id" gorm:"not null;index:idx_course_subject_level"`
	Title       string      `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Level       CourseLevel `json:"level" gorm:"not null;index:idx_course_subject_level" validate:"required,course_level"`
	Description *string     `json:"description" gorm:"type:text"`
	URL         *string     `json:"url" gorm:"size:500" validate:"omitempty,url,max=500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Subject Subject `json:"-" gorm:"foreignKey:SubjectID"`
}

func (Subject) TableName() string {
	return "subjects"
}

func (Course) TableName() string {
	return "courses"
}
