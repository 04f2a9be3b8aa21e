package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStorage 把图片原图存在本地磁盘，是默认的存储后端
// 所有操作都先经过 resolve，把相对存储路径锁死在根目录之下
type LocalStorage struct {
	root string
}

// NewLocalStorage 创建本地存储，目录不存在时自动建立并探测可写性
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory '%s': %w", root, err)
	}

	probe := filepath.Join(root, ".write_test_"+strconv.FormatInt(time.Now().UnixNano(), 10))
	f, err := os.Create(probe)
	if err != nil {
		return nil, fmt.Errorf("local storage directory '%s' is not writable: %w", root, err)
	}
	_ = f.Close()
	_ = os.Remove(probe)

	return &LocalStorage{root: root + string(os.PathSeparator)}, nil
}

// resolve 校验存储路径并拼出磁盘绝对路径
// 拼接结果跑出根目录视为遍历攻击
func (s *LocalStorage) resolve(storagePath string) (string, error) {
	if !IsValidStoragePath(storagePath) {
		return "", fmt.Errorf("invalid storage path: %s", storagePath)
	}
	full := filepath.Join(s.root, storagePath)
	if !strings.HasPrefix(full, s.root) {
		return "", fmt.Errorf("invalid file path, potential directory traversal: %s", storagePath)
	}
	return full, nil
}

// SaveWithContext 把上传的图片内容写入磁盘
// 写入失败时移除半成品文件，避免留下损坏的图
func (s *LocalStorage) SaveWithContext(ctx context.Context, storagePath string, file io.Reader) error {
	dstPath, err := s.resolve(storagePath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", storagePath, err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", dstPath, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy file content to '%s': %w", dstPath, err)
	}

	return nil
}

// GetWithContext 读取图片内容
func (s *LocalStorage) GetWithContext(ctx context.Context, storagePath string) (io.ReadSeeker, error) {
	fullPath, err := s.resolve(storagePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", storagePath, err)
	}

	return file, nil
}

// OpenFile 直接返回文件句柄，图片下载走零拷贝路径
func (s *LocalStorage) OpenFile(ctx context.Context, storagePath string) (*os.File, error) {
	fullPath, err := s.resolve(storagePath)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// DeleteWithContext 删除图片文件
// 调用方负责确认没有其他记录还引用这个路径
func (s *LocalStorage) DeleteWithContext(ctx context.Context, storagePath string) error {
	fullPath, err := s.resolve(storagePath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file to delete not found: %s", storagePath)
		}
		return fmt.Errorf("failed to delete local file '%s': %w", fullPath, err)
	}

	return nil
}

// Exists 检查图片文件是否存在
func (s *LocalStorage) Exists(ctx context.Context, storagePath string) (bool, error) {
	fullPath, err := s.resolve(storagePath)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储根目录可读
func (s *LocalStorage) Health(ctx context.Context) error {
	_, err := os.ReadDir(s.root)
	return err
}

// Name 返回存储名称
func (s *LocalStorage) Name() string {
	return "local"
}
