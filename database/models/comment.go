package models

import "gorm.io/gorm"

// Comment 评论不关联 User，作者只是自由文本
type Comment struct {
	gorm.Model
	Name    string `gorm:"size:100;not null"`
	Message string `gorm:"type:text;not null"`

	PictureID uint    `gorm:"not null;index"`
	Picture   Picture `gorm:"foreignKey:PictureID"`
}
