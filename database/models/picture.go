package models

import "gorm.io/gorm"

type Picture struct {
	gorm.Model
	Title  string `gorm:"size:200;not null;index"`
	Artist string `gorm:"size:200;not null;index"`

	// Identifier 指向存储中的原始文件，如 a1b2c3d4e5f6
	// 按内容哈希生成，相同文件的多条记录共享同一标识符
	Identifier  string `gorm:"index:idx_identifier;not null"`
	StoragePath string `gorm:"not null"`
	MimeType    string `gorm:"not null"`
	FileSize    int64  `gorm:"not null"`
	Width       int
	Height      int

	UserID uint `gorm:"index"`
	User   User `gorm:"foreignKey:UserID"`

	Comments []*Comment `gorm:"foreignKey:PictureID"`
}
