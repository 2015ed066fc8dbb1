package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptSubmitted  AttemptStatus = "SUBMITTED"
	AttemptExpired    AttemptStatus = "EXPIRED"
)

func (s AttemptStatus) Valid() bool {
	switch s {
	case AttemptInProgress, AttemptSubmitted, AttemptExpired:
		return true
	}
	return false
}

type TestAttempt struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	TestID      uint           `json:"test_id" gorm:"not null;index"`
	Test        Test           `json:"test,omitempty" gorm:"foreignKey:TestID"`
	UserID      string         `json:"user_id" gorm:"not null;index;size:64"`
	Status      AttemptStatus  `json:"status" gorm:"not null;index;size:16;default:'IN_PROGRESS'"`
	StartedAt   time.Time      `json:"started_at" gorm:"not null"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Score       *int           `json:"score,omitempty"`
	Answers     []Answer       `json:"answers,omitempty" gorm:"foreignKey:TestAttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *TestAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Deadline is the moment the attempt stops accepting submissions.
func (a TestAttempt) Deadline(timeLimitMinutes int) time.Time {
	return a.StartedAt.Add(time.Duration(timeLimitMinutes) * time.Minute)
}

// ExpiredAt reports whether an in-progress attempt has run past its deadline.
func (a TestAttempt) ExpiredAt(now time.Time, timeLimitMinutes int) bool {
	return a.Status == AttemptInProgress && now.After(a.Deadline(timeLimitMinutes))
}
