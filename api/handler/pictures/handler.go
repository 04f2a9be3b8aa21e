package pictures

import (
	"github.com/photogur/photogur/database/repo/comments"
	picturesrepo "github.com/photogur/photogur/database/repo/pictures"
	"github.com/photogur/photogur/internal/pictures"
	"github.com/photogur/photogur/storage"
)

// Handler 图片页面处理器
type Handler struct {
	repo           *picturesrepo.Repository
	commentsRepo   *comments.Repository
	pictureService *pictures.Service
	storageFactory *storage.Factory
}

// NewHandler 创建图片处理器
func NewHandler(repo *picturesrepo.Repository, commentsRepo *comments.Repository, pictureService *pictures.Service, storageFactory *storage.Factory) *Handler {
	return &Handler{
		repo:           repo,
		commentsRepo:   commentsRepo,
		pictureService: pictureService,
		storageFactory: storageFactory,
	}
}
