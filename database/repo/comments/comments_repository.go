package comments

import (
	"context"

	"github.com/photogur/photogur/database"
	"github.com/photogur/photogur/database/models"
	"gorm.io/gorm"
)

// Repository 评论仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的评论仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 保存评论
func (r *Repository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// CreateForPicture 确认图片存在并写入评论，两步在同一事务里保持原子
// 图片不存在时返回 gorm.ErrRecordNotFound
func (r *Repository) CreateForPicture(ctx context.Context, comment *models.Comment) error {
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		var picture models.Picture
		if err := tx.Select("id").First(&picture, comment.PictureID).Error; err != nil {
			return err
		}
		return tx.Create(comment).Error
	})
}

// ListByPicture 获取图片的全部评论，最早在前
func (r *Repository) ListByPicture(pictureID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.Where("picture_id = ?", pictureID).Order("created_at asc, id asc").Find(&comments).Error
	return comments, err
}

// CountByPicture 统计图片的评论数量
func (r *Repository) CountByPicture(pictureID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("picture_id = ?", pictureID).Count(&count).Error
	return count, err
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
