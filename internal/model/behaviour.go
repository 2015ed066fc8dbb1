package model

import (
	"strconv"
	"time"

	"github.com/lshigami/behavio/internal/scoring"
	"gorm.io/gorm"
)

type Behaviour struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	GradeID     *uint          `json:"grade_id,omitempty" gorm:"index"`
	Grade       *Grade         `json:"grade,omitempty" gorm:"foreignKey:GradeID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BehaviourLink tags a question against a behaviour. Links carry no weight;
// a question's score is split evenly across its links.
type BehaviourLink struct {
	QuestionID  uint      `json:"question_id" gorm:"primaryKey"`
	BehaviourID uint      `json:"behaviour_id" gorm:"primaryKey"`
	Position    int       `json:"position" gorm:"not null;default:0"`
	Behaviour   Behaviour `json:"behaviour" gorm:"foreignKey:BehaviourID"`
}

func (l BehaviourLink) Ref() scoring.BehaviourRef {
	return scoring.BehaviourRef{
		ID:   strconv.FormatUint(uint64(l.BehaviourID), 10),
		Name: l.Behaviour.Name,
	}
}
