package pictures

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"time"

	"github.com/photogur/photogur/database/models"
	picturesrepo "github.com/photogur/photogur/database/repo/pictures"
	"github.com/photogur/photogur/storage"
	"github.com/photogur/photogur/utils/generator"
	"github.com/photogur/photogur/utils/validator"
)

var (
	// ErrNotAnImage 上传内容不是允许的图片类型
	ErrNotAnImage = errors.New("uploaded file is not a supported image")
	// ErrFileTooLarge 上传内容超过大小限制
	ErrFileTooLarge = errors.New("uploaded file exceeds the size limit")
)

// Service 图片上传/编辑服务
type Service struct {
	repo         *picturesrepo.Repository
	store        storage.Provider
	pathGen      *generator.PathGenerator
	maxSizeBytes int64
}

// NewService 创建图片服务
func NewService(repo *picturesrepo.Repository, store storage.Provider, maxSizeMB int) *Service {
	return &Service{
		repo:         repo,
		store:        store,
		pathGen:      generator.NewPathGenerator(),
		maxSizeBytes: int64(maxSizeMB) << 20,
	}
}

// Create 接收上传的文件，保存二进制并持久化记录，所有者绑定为当前用户
func (s *Service) Create(ctx context.Context, userID uint, title, artist string, fileHeader *multipart.FileHeader) (*models.Picture, error) {
	stored, err := s.storeFile(ctx, fileHeader)
	if err != nil {
		return nil, err
	}

	picture := &models.Picture{
		Title:       title,
		Artist:      artist,
		Identifier:  stored.identifier,
		StoragePath: stored.storagePath,
		MimeType:    stored.mimeType,
		FileSize:    stored.size,
		Width:       stored.width,
		Height:      stored.height,
		UserID:      userID,
	}

	if err := s.repo.Create(picture); err != nil {
		// 记录失败时清理已写入的文件
		s.deleteIfUnreferenced(ctx, stored.storagePath)
		return nil, fmt.Errorf("failed to persist picture: %w", err)
	}

	return picture, nil
}

// Update 更新标题和作者；fileHeader 为 nil 时保留原有文件
func (s *Service) Update(ctx context.Context, picture *models.Picture, title, artist string, fileHeader *multipart.FileHeader) error {
	picture.Title = title
	picture.Artist = artist

	if fileHeader != nil {
		stored, err := s.storeFile(ctx, fileHeader)
		if err != nil {
			return err
		}

		oldPath := picture.StoragePath
		picture.Identifier = stored.identifier
		picture.StoragePath = stored.storagePath
		picture.MimeType = stored.mimeType
		picture.FileSize = stored.size
		picture.Width = stored.width
		picture.Height = stored.height

		if err := s.repo.Update(picture); err != nil {
			return fmt.Errorf("failed to update picture: %w", err)
		}

		if oldPath != "" && oldPath != stored.storagePath {
			s.deleteIfUnreferenced(ctx, oldPath)
		}
		return nil
	}

	if err := s.repo.Update(picture); err != nil {
		return fmt.Errorf("failed to update picture: %w", err)
	}
	return nil
}

// deleteIfUnreferenced 仅在没有任何记录引用该路径时删除文件
// 相同内容的上传指向同一存储路径，不能随单条记录一起删
func (s *Service) deleteIfUnreferenced(ctx context.Context, storagePath string) {
	count, err := s.repo.WithContext(ctx).CountByStoragePath(storagePath)
	if err != nil {
		log.Printf("[Pictures] Failed to count references for %s, keeping file: %v", storagePath, err)
		return
	}
	if count > 0 {
		return
	}
	if err := s.store.DeleteWithContext(ctx, storagePath); err != nil {
		log.Printf("[Pictures] Failed to delete unreferenced file %s: %v", storagePath, err)
	}
}

type storedFile struct {
	identifier  string
	storagePath string
	mimeType    string
	size        int64
	width       int
	height      int
}

// storeFile 校验并写入上传内容，返回存储标识
func (s *Service) storeFile(ctx context.Context, fileHeader *multipart.FileHeader) (*storedFile, error) {
	if s.maxSizeBytes > 0 && fileHeader.Size > s.maxSizeBytes {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	reader := bytes.NewReader(data)

	mimeType, ok, err := validator.SniffImage(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to sniff uploaded file: %w", err)
	}
	if !ok {
		return nil, ErrNotAnImage
	}

	width, height, err := validator.DecodeDimensions(reader)
	if err != nil {
		// 尺寸不可解码不阻塞上传
		width, height = 0, 0
	}

	sum := sha256.Sum256(data)
	ids := s.pathGen.GenerateOriginalIdentifiers(hex.EncodeToString(sum[:]), validator.ExtensionForMime(mimeType), time.Now())

	if err := s.store.SaveWithContext(ctx, ids.StoragePath, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to save file to storage: %w", err)
	}

	return &storedFile{
		identifier:  ids.Identifier,
		storagePath: ids.StoragePath,
		mimeType:    mimeType,
		size:        int64(len(data)),
		width:       width,
		height:      height,
	}, nil
}
