package model

import (
	"time"

	"gorm.io/gorm"
)

type Test struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Name             string         `json:"name" gorm:"not null"`
	Description      string         `json:"description,omitempty" gorm:"type:text"`
	TimeLimitMinutes int            `json:"time_limit_minutes" gorm:"not null;default:30"`
	GradeID          *uint          `json:"grade_id,omitempty" gorm:"index"`
	Grade            *Grade         `json:"grade,omitempty" gorm:"foreignKey:GradeID"`
	IsPublished      bool           `json:"is_published" gorm:"not null;default:true"`
	Questions        []TestQuestion `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t Test) GradeName() string {
	if t.Grade == nil {
		return ""
	}
	return t.Grade.Name
}

// TestQuestion places a question in a test. Position is the authoring order,
// not the order a test-taker sees.
type TestQuestion struct {
	TestID     uint     `json:"test_id" gorm:"primaryKey"`
	QuestionID uint     `json:"question_id" gorm:"primaryKey"`
	Position   *int     `json:"position,omitempty"`
	Question   Question `json:"question" gorm:"foreignKey:QuestionID"`
}
