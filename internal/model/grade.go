package model

import (
	"time"

	"gorm.io/gorm"
)

type Grade struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
