package pictures

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/photogur/photogur/api/common"
	"github.com/photogur/photogur/database/models"
	"github.com/photogur/photogur/storage"
	"github.com/photogur/photogur/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var fileDownloadGroup singleflight.Group

// GetPictureFile 按标识符返回图片文件内容
func (h *Handler) GetPictureFile(c *gin.Context) {
	identifier := c.Param("identifier")
	if identifier == "" {
		common.RenderError(c, http.StatusBadRequest, "Picture identifier is required.")
		return
	}

	picture, err := h.repo.WithContext(c.Request.Context()).GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.RenderError(c, http.StatusNotFound, "Picture file not found.")
			return
		}
		log.Printf("[pictures] failed to resolve identifier %s: %v", utils.SanitizeLogMessage(identifier), err)
		common.RenderError(c, http.StatusInternalServerError, "Could not load picture file.")
		return
	}

	provider := h.storageFactory.GetDefault()

	// 本地存储走 sendfile 零拷贝路径
	if opener, ok := provider.(storage.FileOpener); ok {
		if h.serveBySendfile(c, picture, opener) {
			return
		}
	}

	// 远程存储读入内存后发送
	data, err := h.fetchFromRemote(provider, picture.StoragePath)
	if err != nil {
		log.Printf("[pictures] failed to fetch %s from storage: %v", utils.SanitizeLogMessage(identifier), err)
		common.RenderError(c, http.StatusNotFound, "Picture file not found.")
		return
	}

	h.servePictureData(c, picture, data)
}

// fetchFromRemote 从远程存储获取文件数据（带 singleflight 防击穿）
func (h *Handler) fetchFromRemote(provider storage.Provider, storagePath string) ([]byte, error) {
	v, err, _ := fileDownloadGroup.Do(storagePath, func() (interface{}, error) {
		stream, err := provider.GetWithContext(context.Background(), storagePath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closer, ok := stream.(io.Closer); ok {
				_ = closer.Close()
			}
		}()

		data, err := io.ReadAll(stream)
		if err != nil {
			return nil, err
		}
		return data, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]byte), nil
}

// serveBySendfile 使用 sendfile 零拷贝传输
func (h *Handler) serveBySendfile(c *gin.Context, picture *models.Picture, opener storage.FileOpener) bool {
	file, err := opener.OpenFile(c.Request.Context(), picture.StoragePath)
	if err != nil {
		return false
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return false
	}

	setFileHeaders(c, picture)
	http.ServeContent(c.Writer, c.Request, "", stat.ModTime(), file)
	return true
}

func (h *Handler) servePictureData(c *gin.Context, picture *models.Picture, data []byte) {
	setFileHeaders(c, picture)
	http.ServeContent(c.Writer, c.Request, "", time.Time{}, bytes.NewReader(data))
}

func setFileHeaders(c *gin.Context, picture *models.Picture) {
	contentType := picture.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	// 标识符按内容哈希生成，内容不变，可长缓存
	c.Header("Cache-Control", "public, max-age=2592000, immutable")
}
