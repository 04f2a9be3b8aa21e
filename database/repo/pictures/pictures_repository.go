package pictures

import (
	"context"
	"strings"

	"github.com/photogur/photogur/database/models"
	"gorm.io/gorm"
)

// Repository 图片仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的图片仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 保存图片
func (r *Repository) Create(picture *models.Picture) error {
	return r.db.Create(picture).Error
}

// ListAll 获取全部图片，最新在前
func (r *Repository) ListAll() ([]*models.Picture, error) {
	var pictures []*models.Picture
	err := r.db.Order("created_at desc, id desc").Find(&pictures).Error
	return pictures, err
}

// GetByID 通过ID获取图片
func (r *Repository) GetByID(id uint) (*models.Picture, error) {
	var picture models.Picture
	err := r.db.First(&picture, id).Error
	return &picture, err
}

// GetByIdentifier 通过存储标识符获取图片
func (r *Repository) GetByIdentifier(identifier string) (*models.Picture, error) {
	var picture models.Picture
	err := r.db.Where("identifier = ?", identifier).First(&picture).Error
	return &picture, err
}

// GetByIDAndUser 通过ID和所有者获取图片
// 所有权约束折叠进查询条件，非所有者与不存在的记录不可区分
func (r *Repository) GetByIDAndUser(id, userID uint) (*models.Picture, error) {
	var picture models.Picture
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&picture).Error
	return &picture, err
}

// Search 按标题或作者进行大小写不敏感的子串匹配
// 单条 OR 查询天然去重
func (r *Repository) Search(query string) ([]*models.Picture, error) {
	var pictures []*models.Picture
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.
		Where("LOWER(title) LIKE ? OR LOWER(artist) LIKE ?", pattern, pattern).
		Order("created_at desc, id desc").
		Find(&pictures).Error
	return pictures, err
}

// Update 更新图片
func (r *Repository) Update(picture *models.Picture) error {
	return r.db.Save(picture).Error
}

// CountByStoragePath 统计引用同一存储路径的图片数量
// 相同内容的上传共用文件，删除前必须确认无人引用
func (r *Repository) CountByStoragePath(storagePath string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Picture{}).Where("storage_path = ?", storagePath).Count(&count).Error
	return count, err
}

// CountByUser 统计用户图片数量
func (r *Repository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Picture{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}

// DB 返回底层 *gorm.DB 实例
func (r *Repository) DB() *gorm.DB {
	return r.db
}
