package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrAttemptNotActive = errors.New("attempt is not in progress")
	ErrAttemptOpen      = errors.New("attempt is still in progress")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
