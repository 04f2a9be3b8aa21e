package pictures

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/photogur/photogur/database/models"
	picturesrepo "github.com/photogur/photogur/database/repo/pictures"
	"github.com/photogur/photogur/storage"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *picturesrepo.Repository, *storage.LocalStorage) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Picture{}, &models.Comment{}))

	store, err := storage.NewLocalStorage(t.TempDir())
	assert.NoError(t, err)

	repo := picturesrepo.NewRepository(db)
	return NewService(repo, store, 10), repo, store
}

func pngFileHeader(t *testing.T, field, filename string) *multipart.FileHeader {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	var imgBuf bytes.Buffer
	assert.NoError(t, png.Encode(&imgBuf, img))

	return fileHeaderFromBytes(t, field, filename, imgBuf.Bytes())
}

func fileHeaderFromBytes(t *testing.T, field, filename string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	assert.NoError(t, err)
	_, err = part.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, fileHeader, err := req.FormFile(field)
	assert.NoError(t, err)
	return fileHeader
}

// --- 测试 图片服务 ---

func TestCreateStoresFileAndRecord(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	picture, err := svc.Create(ctx, 1, "Sunset", "Monet", pngFileHeader(t, "image", "sunset.png"))
	assert.NoError(t, err)
	assert.Equal(t, "Sunset", picture.Title)
	assert.Equal(t, "image/png", picture.MimeType)
	assert.Len(t, picture.Identifier, 12)
	assert.Equal(t, uint(1), picture.UserID)
	assert.Equal(t, 8, picture.Width)
	assert.Equal(t, 6, picture.Height)

	// 文件已落盘
	exists, err := store.Exists(ctx, picture.StoragePath)
	assert.NoError(t, err)
	assert.True(t, exists)

	// 记录可查询
	got, err := repo.GetByIdentifier(picture.Identifier)
	assert.NoError(t, err)
	assert.Equal(t, picture.ID, got.ID)
}

func TestCreateRejectsNonImage(t *testing.T) {
	svc, _, _ := newTestService(t)

	header := fileHeaderFromBytes(t, "image", "evil.png", []byte("#!/bin/sh\necho pwned"))
	_, err := svc.Create(context.Background(), 1, "Evil", "Mallory", header)
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestUpdateKeepsFileWhenNoneUploaded(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	picture, err := svc.Create(ctx, 1, "Before", "Old", pngFileHeader(t, "image", "a.png"))
	assert.NoError(t, err)
	originalPath := picture.StoragePath

	assert.NoError(t, svc.Update(ctx, picture, "After", "New", nil))

	got, err := repo.GetByID(picture.ID)
	assert.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, "New", got.Artist)
	assert.Equal(t, originalPath, got.StoragePath)
}

func TestUpdateReplacesFile(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	picture, err := svc.Create(ctx, 1, "Title", "Artist", pngFileHeader(t, "image", "a.png"))
	assert.NoError(t, err)
	oldPath := picture.StoragePath

	// 换一张内容不同的图
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	header := fileHeaderFromBytes(t, "image", "b.png", buf.Bytes())

	assert.NoError(t, svc.Update(ctx, picture, "Title", "Artist", header))
	assert.NotEqual(t, oldPath, picture.StoragePath)

	// 旧文件被清理
	exists, err := store.Exists(ctx, oldPath)
	assert.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.Exists(ctx, picture.StoragePath)
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdateKeepsSharedFileAlive(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	// 两个用户上传相同内容，共用同一存储路径
	alicePic, err := svc.Create(ctx, 1, "Alice's copy", "Shared", pngFileHeader(t, "image", "a.png"))
	assert.NoError(t, err)
	bobPic, err := svc.Create(ctx, 2, "Bob's copy", "Shared", pngFileHeader(t, "image", "b.png"))
	assert.NoError(t, err)
	assert.Equal(t, alicePic.StoragePath, bobPic.StoragePath)
	sharedPath := bobPic.StoragePath

	// Alice 换图后，Bob 的文件必须还在
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	header := fileHeaderFromBytes(t, "image", "replacement.png", buf.Bytes())

	assert.NoError(t, svc.Update(ctx, alicePic, "Alice's copy", "Shared", header))
	assert.NotEqual(t, sharedPath, alicePic.StoragePath)

	exists, err := store.Exists(ctx, sharedPath)
	assert.NoError(t, err)
	assert.True(t, exists)

	// Bob 换图后无人引用，才清理
	assert.NoError(t, svc.Update(ctx, bobPic, "Bob's copy", "Shared", header))
	exists, err = store.Exists(ctx, sharedPath)
	assert.NoError(t, err)
	assert.False(t, exists)

	count, err := repo.CountByStoragePath(sharedPath)
	assert.NoError(t, err)
	assert.Zero(t, count)
}
