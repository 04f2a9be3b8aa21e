package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;size:150;not null"`
	Password string `gorm:"not null"`

	Pictures []*Picture `gorm:"foreignKey:UserID"`
}
