package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Provider 存储提供者接口
// 定义了存储层的基本操作，所有存储实现必须遵循此接口
type Provider interface {
	// SaveWithContext 保存文件到存储
	SaveWithContext(ctx context.Context, storagePath string, file io.Reader) error

	// GetWithContext 从存储获取文件
	GetWithContext(ctx context.Context, storagePath string) (io.ReadSeeker, error)

	// DeleteWithContext 从存储删除文件
	DeleteWithContext(ctx context.Context, storagePath string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, storagePath string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}

// FileOpener 本地存储可以直接打开文件句柄，走零拷贝路径
type FileOpener interface {
	OpenFile(ctx context.Context, storagePath string) (*os.File, error)
}

// IsValidStoragePath 校验存储路径是否合法
// 图片路径由路径生成器产出（original/年/月/日/哈希.扩展名），
// 任何不符合这个字符集的路径都当作攻击拒绝
func IsValidStoragePath(path string) bool {
	if path == "" || filepath.IsAbs(path) {
		return false
	}

	// 防止目录遍历
	if strings.Contains(path, "..") {
		return false
	}

	for _, r := range path {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == '/':
		default:
			return false
		}
	}
	return true
}
