package model

import (
	"strconv"
	"time"

	"github.com/lshigami/behavio/internal/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Prompt         string          `json:"prompt" gorm:"type:text;not null"`
	Type           string          `json:"type" gorm:"not null"` // MCQ, NUMERICAL, SJT, FREE_TEXT, TECHNICAL
	CorrectAnswer  *string         `json:"correct_answer,omitempty" gorm:"type:text"`
	Metadata       datatypes.JSON  `json:"metadata,omitempty"`
	BehaviourLinks []BehaviourLink `json:"behaviour_links,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Compile binds the question to its scorer. Behaviour links must be preloaded
// for contributions to be emitted.
func (q Question) Compile() scoring.Question {
	refs := make([]scoring.BehaviourRef, 0, len(q.BehaviourLinks))
	for _, l := range q.BehaviourLinks {
		refs = append(refs, l.Ref())
	}
	return scoring.Compile(strconv.FormatUint(uint64(q.ID), 10), q.Type, q.CorrectAnswer, q.Metadata, refs)
}
