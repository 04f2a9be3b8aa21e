package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// --- 测试 存储路径生成 ---

func TestGenerateOriginalIdentifiers(t *testing.T) {
	pg := NewPathGenerator()
	uploadTime := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	ids := pg.GenerateOriginalIdentifiers("a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3", ".png", uploadTime)

	assert.Equal(t, "a665a4592042", ids.Identifier)
	assert.Equal(t, "original/2026/03/14/a665a4592042.png", ids.StoragePath)
}

func TestGenerateOriginalIdentifiersDeterministic(t *testing.T) {
	pg := NewPathGenerator()
	uploadTime := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	first := pg.GenerateOriginalIdentifiers("deadbeefdeadbeefdeadbeef", ".jpg", uploadTime)
	second := pg.GenerateOriginalIdentifiers("deadbeefdeadbeefdeadbeef", ".jpg", uploadTime)

	// 相同内容和时间得到相同路径
	assert.Equal(t, first, second)
}
