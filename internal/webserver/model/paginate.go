package model

import (
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 25
	MaxListLimit     = 100
)

// Limit caps the number of rows returned by a listing
func Limit(limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case limit > MaxListLimit:
			limit = MaxListLimit
		case limit <= 0:
			limit = DefaultListLimit
		}

		return db.Limit(limit)
	}
}
